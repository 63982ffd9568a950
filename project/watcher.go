package project

import (
	"os"
	"time"
)

// Watcher polls a project's sources and rebuilds the ones that change.
// Outputs of deleted sources are removed.
type Watcher struct {
	project      *Project
	stopCh       chan struct{}
	doneCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time

	// OnBuild, when set, is called after every rebuild attempt.
	OnBuild func(src string, err error)
}

func NewWatcher(p *Project, pollInterval time.Duration) *Watcher {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Watcher{
		project:      p,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		pollInterval: pollInterval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *Watcher) Start() {
	go w.run()
}

// Stop ends polling and waits for the current scan to finish.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *Watcher) scan() {
	sources, err := w.project.Sources()
	if err != nil {
		log.Errorf("watch: %s", err)
		return
	}

	current := make(map[string]bool, len(sources))
	for _, src := range sources {
		current[src] = true

		info, err := os.Stat(src)
		if err != nil {
			continue
		}
		lastMod, known := w.modTimes[src]
		if known && !info.ModTime().After(lastMod) {
			continue
		}
		w.modTimes[src] = info.ModTime()

		_, err = w.project.BuildFile(src)
		if err != nil {
			log.Errorf("build %s: %s", src, err)
		} else {
			log.Infof("rebuilt %s", src)
		}
		if w.OnBuild != nil {
			w.OnBuild(src, err)
		}
	}

	for src := range w.modTimes {
		if current[src] {
			continue
		}
		delete(w.modTimes, src)
		if out, err := w.project.OutputPath(src); err == nil {
			if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
				log.Errorf("remove %s: %s", out, err)
			}
		}
	}
}
