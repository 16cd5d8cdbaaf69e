package runner

import "sync"

// Job is one unit of scan work.
type Job func() error

// Run executes jobs with at most parallel workers and returns the errors of
// the jobs that failed, in completion order.
func Run(parallel int, jobs []Job) []error {
	if parallel < 1 {
		parallel = 1
	}

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	sem := make(chan struct{}, parallel)

	for _, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(j Job) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := j(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(job)
	}
	wg.Wait()
	return errs
}
