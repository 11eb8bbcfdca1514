package indeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vector81/Jobby/model"
)

const resultsFixture = `<html><body>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="/rc/clk?jk=abc123def456&from=serp">Go Backend Engineer</a></h2>
  <span data-testid="company-name">Hooli</span>
  <div data-testid="text-location">Brisbane QLD</div>
  <div data-testid="attribute_snippet_testid">$140,000 a year</div>
</div>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="https://au.indeed.com/viewjob?jk=feedbeef0000">Site Reliability Engineer</a></h2>
  <span data-testid="company-name">Pied Piper</span>
  <div data-testid="text-location">Remote</div>
</div>
</body></html>`

func TestParseSearchRewritesTrackingLinks(t *testing.T) {
	jobs, err := parseSearch(resultsFixture, "go")
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, "Go Backend Engineer", first.Title)
	assert.Equal(t, "Hooli", first.Company)
	assert.Equal(t, "$140,000 a year", first.Salary)
	// The /rc/clk redirect collapses to the stable viewjob address.
	assert.Equal(t, "https://au.indeed.com/viewjob?jk=abc123def456", first.URL)

	second := jobs[1]
	assert.Equal(t, "https://au.indeed.com/viewjob?jk=feedbeef0000", second.URL)
	assert.Equal(t, model.SalaryNotListed, second.Salary)
}

func TestSameJobFromBothLinkFormsDeduplicates(t *testing.T) {
	a, err := canonicalJobURL("/rc/clk?jk=abc123&from=serp")
	require.NoError(t, err)
	b, err := canonicalJobURL("https://au.indeed.com/viewjob?jk=abc123")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
