package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vector81/Jobby/model"
	"github.com/vector81/Jobby/utils"
)

// Catalogue is the deduplicated record of every job a search has ever
// surfaced. The canonical URL is the only identity key; a URL appears at most
// once for the life of the file.
type Catalogue struct {
	path  string
	jobs  []model.Job
	index map[string]int // canonical URL -> position in jobs
}

// LoadCatalogue reads the catalogue at path, tolerating absence and refusing
// to die on corruption. Records without a URL cannot be deduplicated and are
// dropped during load.
func LoadCatalogue(path string) *Catalogue {
	c := &Catalogue{path: path, index: map[string]int{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("catalogue %s unreadable, starting empty: %v", path, err)
		}
		return c
	}

	var loaded []model.Job
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Warnf("catalogue %s malformed, starting empty: %v", path, err)
		return c
	}

	for _, job := range loaded {
		if job.URL == "" {
			continue
		}
		if _, dup := c.index[job.URL]; dup {
			continue
		}
		c.index[job.URL] = len(c.jobs)
		c.jobs = append(c.jobs, job)
	}
	return c
}

// Merge appends every found job whose URL is not yet known and reports how
// many were new. A duplicate URL keeps the existing record untouched,
// including its applied state; re-searching never un-applies a job.
func (c *Catalogue) Merge(found []model.Job) int {
	added := 0
	for _, job := range found {
		if job.URL == "" {
			continue
		}
		if _, dup := c.index[job.URL]; dup {
			continue
		}
		c.index[job.URL] = len(c.jobs)
		c.jobs = append(c.jobs, job)
		added++
	}
	return added
}

// Unapplied returns copies of the records still awaiting an attempt,
// restricted to platform when it is non-empty, in discovery order.
func (c *Catalogue) Unapplied(platform string) []model.Job {
	var pending []model.Job
	for _, job := range c.jobs {
		if job.Applied {
			continue
		}
		if platform != "" && job.Platform != platform {
			continue
		}
		pending = append(pending, job)
	}
	return pending
}

// Jobs returns a copy of every record in discovery order.
func (c *Catalogue) Jobs() []model.Job {
	out := make([]model.Job, len(c.jobs))
	copy(out, c.jobs)
	return out
}

// Len reports the number of records held.
func (c *Catalogue) Len() int {
	return len(c.jobs)
}

// RecordOutcome marks the job identified by url after a terminal attempt and
// rewrites the whole file. A submitted application sets the applied flag and
// timestamp; an abandoned one leaves the job eligible for a retry on a later
// run, but still persists so the file always reflects the latest state.
func (c *Catalogue) RecordOutcome(url string, submitted bool) error {
	idx, ok := c.index[url]
	if !ok {
		return fmt.Errorf("job %s not in catalogue", url)
	}

	if submitted {
		now := time.Now()
		c.jobs[idx].Applied = true
		c.jobs[idx].AppliedAt = &now
	}
	return c.Flush()
}

// Flush rewrites the whole file in discovery order. Rewriting unchanged state
// produces byte-identical files.
func (c *Catalogue) Flush() error {
	records := c.jobs
	if records == nil {
		records = []model.Job{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalogue: %w", err)
	}
	if err := utils.WriteFileAtomic(c.path, data); err != nil {
		return fmt.Errorf("write catalogue %s: %w", c.path, err)
	}
	return nil
}
