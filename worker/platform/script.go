package platform

// In-page scripts shared by the adapters. Each script is a single expression
// returning a JSON-encodable value, per the browser.Page Evaluate contract.
// Both scripts tag the elements they report with data attributes so a later
// click or fill can address exactly the element that was scanned.

// scriptScanQuestions walks every form control, resolves its label (attached
// <label>, label[for], enclosing label, aria-label), groups radios and
// checkboxes by name with the enclosing fieldset's legend as the question
// text, and tags everything with data-jobby-q / data-jobby-opt.
const scriptScanQuestions = `(() => {
	const out = [];
	const groups = {};
	let idx = 0;

	const labelFor = (el) => {
		if (el.labels && el.labels.length) return el.labels[0].innerText;
		if (el.id) {
			const l = document.querySelector('label[for="' + el.id + '"]');
			if (l) return l.innerText;
		}
		const wrap = el.closest('label');
		if (wrap) return wrap.innerText;
		return el.getAttribute('aria-label') || '';
	};

	for (const el of document.querySelectorAll('input, textarea, select')) {
		const tag = el.tagName.toLowerCase();
		const type = (el.getAttribute('type') || 'text').toLowerCase();
		if (tag === 'input' && ['hidden', 'file', 'submit', 'button', 'image', 'reset'].includes(type)) continue;

		if (tag === 'input' && (type === 'radio' || type === 'checkbox')) {
			const key = el.name || 'anon-' + idx;
			if (key in groups) {
				const q = out[groups[key]];
				el.setAttribute('data-jobby-q', String(q.index));
				el.setAttribute('data-jobby-opt', String(q.options.length));
				q.options.push(labelFor(el).trim());
				continue;
			}
			let label = '';
			const fs = el.closest('fieldset');
			if (fs) {
				const lg = fs.querySelector('legend');
				if (lg) label = lg.innerText;
			}
			if (!label) label = labelFor(el);
			groups[key] = out.length;
			el.setAttribute('data-jobby-q', String(idx));
			el.setAttribute('data-jobby-opt', '0');
			out.push({label: label.trim(), kind: type, options: [labelFor(el).trim()], index: idx});
			idx++;
			continue;
		}

		let kind = 'text';
		let options = [];
		if (tag === 'textarea') {
			kind = 'textarea';
		} else if (tag === 'select') {
			kind = 'select';
			options = Array.from(el.options)
				.map(o => (o.label || o.text || '').trim())
				.filter(t => t !== '');
		}
		el.setAttribute('data-jobby-q', String(idx));
		out.push({label: labelFor(el).trim(), kind: kind, options: options, index: idx});
		idx++;
	}
	return out;
})()`

// scriptScanRadioLabels tags the radio or checkbox input behind every
// visible label and returns the label texts in DOM order. The tag lands on
// the input, not the label, so the follow-up click changes form state.
const scriptScanRadioLabels = `(() => {
	const texts = [];
	let i = 0;
	for (const label of document.querySelectorAll('label')) {
		const rect = label.getBoundingClientRect();
		if (rect.width === 0 || rect.height === 0) continue;
		let input = null;
		if (label.htmlFor) input = document.getElementById(label.htmlFor);
		if (!input) input = label.querySelector('input[type="radio"], input[type="checkbox"]');
		if (!input) continue;
		const type = (input.getAttribute('type') || '').toLowerCase();
		if (type !== 'radio' && type !== 'checkbox') continue;
		input.setAttribute('data-jobby-radio', String(i));
		texts.push((label.innerText || '').trim());
		i++;
	}
	return texts;
})()`

// scriptScanClickables tags every enabled, visible clickable element and
// returns their texts in DOM order. Disabled and zero-size elements are
// excluded so a greyed-out submit never matches.
const scriptScanClickables = `(() => {
	const texts = [];
	let i = 0;
	for (const el of document.querySelectorAll('button, [role="button"], input[type="submit"]')) {
		const rect = el.getBoundingClientRect();
		if (rect.width === 0 || rect.height === 0) continue;
		if (el.disabled === true || el.getAttribute('aria-disabled') === 'true') continue;
		el.setAttribute('data-jobby-click', String(i));
		texts.push((el.innerText || el.value || '').trim());
		i++;
	}
	return texts;
})()`
