package main

import (
	"fmt"
	"io"
	"sync"

	segmenter "github.com/next-exp/segmenter_go/pkg"
)

type eventSource func() (*segmenter.RawEvent, error)

type WorkerData struct {
	Seq int
	Raw *segmenter.RawEvent
}

type WorkerResult struct {
	Seq    int
	Raw    *segmenter.RawEvent
	Result segmenter.Result
	Err    error
}

func worker(id int, seg *segmenter.Segmenter, jobs <-chan WorkerData, results chan<- WorkerResult) {
	for job := range jobs {
		if VerbosityLevel > 1 {
			message := fmt.Sprintf("Worker %d processing event %d", id, job.Raw.EventNumber)
			logger.Info(message, "worker")
		}
		results <- segmentEvent(seg, job)
	}
}

func segmentEvent(seg *segmenter.Segmenter, job WorkerData) (res WorkerResult) {
	res = WorkerResult{Seq: job.Seq, Raw: job.Raw}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("segmenter recovered from panic on job %d: %v", job.Seq, r)
		}
	}()
	res.Result, res.Err = seg.Process(job.Raw)
	return res
}

func sendEventsToWorkers(next eventSource, jobs chan<- WorkerData, done <-chan struct{}) error {
	for seq := 0; ; seq++ {
		raw, err := next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		select {
		case jobs <- WorkerData{Seq: seq, Raw: raw}:
		case <-done:
			return nil
		}
	}
}

// processEvents segments every event returned by next with numWorkers
// goroutines, each owning its own Segmenter, and hands the results to handle
// in input order. An error from handle stops the run.
func processEvents(next eventSource, numWorkers int, newSegmenter func() *segmenter.Segmenter,
	handle func(WorkerResult) error) error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	jobs := make(chan WorkerData, 2*numWorkers)
	results := make(chan WorkerResult, 2*numWorkers)
	done := make(chan struct{})

	var readErr error
	go func() {
		err := sendEventsToWorkers(next, jobs, done)
		readErr = err
		close(jobs)
	}()

	var wg sync.WaitGroup
	for w := 1; w <= numWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(id, newSegmenter(), jobs, results)
		}(w)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	pending := make(map[int]WorkerResult)
	nextSeq := 0
	var handleErr error
	for res := range results {
		if handleErr != nil {
			continue
		}
		pending[res.Seq] = res
		for {
			ready, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := handle(ready); err != nil {
				handleErr = err
				close(done)
				break
			}
		}
	}

	if handleErr != nil {
		return handleErr
	}
	return readErr
}
