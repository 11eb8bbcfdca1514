package browser

import (
	"encoding/json"
	"fmt"
)

// jsString encodes s as a JS string literal, quoting included.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// Driver-level scripts. Each one is a single expression returning a
// JSON-encodable value so both drivers can evaluate it the same way.

const scriptBodyText = `(document.body ? document.body.innerText : '')`

const scriptScrollBottom = `(() => { window.scrollTo(0, document.body.scrollHeight); return true; })()`

// scriptSelectByLabel picks a <select> option by visible label: exact match,
// then substring, then value. Fires input/change so framework-bound forms
// notice the new value.
func scriptSelectByLabel(selector, label string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el || el.tagName.toLowerCase() !== 'select') return false;
	const want = %s.trim().toLowerCase();
	const opts = Array.from(el.options);
	let hit = opts.find(o => (o.label || o.text || '').trim().toLowerCase() === want);
	if (!hit) hit = opts.find(o => (o.label || o.text || '').trim().toLowerCase().includes(want));
	if (!hit) hit = opts.find(o => (o.value || '').trim().toLowerCase() === want);
	if (!hit) return false;
	el.value = hit.value;
	el.dispatchEvent(new Event('input', {bubbles: true}));
	el.dispatchEvent(new Event('change', {bubbles: true}));
	return true;
})()`, jsString(selector), jsString(label))
}

// scriptIsVisible reports whether the selector's first match takes up layout
// space; detached and display:none elements both count as invisible.
func scriptIsVisible(selector string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	const rect = el.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0;
})()`, jsString(selector))
}

// scriptHideAutomation runs before any site script on every new document and
// blanks the loudest automation tells.
const scriptHideAutomation = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
Object.defineProperty(navigator, 'languages', {get: () => ['en-AU', 'en']});
Object.defineProperty(navigator, 'plugins', {get: () => [1, 2, 3]});`
