package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// EventSource delivers change notifications for a watched document.
type EventSource interface {
	// Events receives one value per observed change. Bursts may be
	// coalesced into a single value.
	Events() <-chan struct{}
	// Errors receives watch errors. It may be nil.
	Errors() <-chan error
	// Close stops watching and releases the underlying handle.
	Close() error
}

// FileSource watches a single file with fsnotify.
//
// The parent directory is watched rather than the file itself so that
// editors which save by writing a temp file and renaming it over the
// original keep being observed.
type FileSource struct {
	watcher  *fsnotify.Watcher
	path     string
	events   chan struct{}
	errors   chan error
	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// NewFileSource starts watching path. The file's directory must exist.
func NewFileSource(path string) (*FileSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", filepath.Dir(abs), err)
	}

	fs := &FileSource{
		watcher:  watcher,
		path:     abs,
		events:   make(chan struct{}, 1),
		errors:   make(chan error, 1),
		stopChan: make(chan struct{}),
	}

	fs.wg.Add(1)
	go fs.watch()

	return fs, nil
}

// Path returns the absolute path being watched.
func (fs *FileSource) Path() string {
	return fs.path
}

// Events implements EventSource.
func (fs *FileSource) Events() <-chan struct{} {
	return fs.events
}

// Errors implements EventSource.
func (fs *FileSource) Errors() <-chan error {
	return fs.errors
}

// Close implements EventSource. It is safe to call more than once.
func (fs *FileSource) Close() error {
	var err error
	fs.once.Do(func() {
		close(fs.stopChan)
		fs.wg.Wait()
		err = fs.watcher.Close()
	})
	return err
}

// watch is the main event loop
func (fs *FileSource) watch() {
	defer fs.wg.Done()

	for {
		select {
		case event, ok := <-fs.watcher.Events:
			if !ok {
				return
			}
			if !fs.relevant(event) {
				continue
			}
			// A pending notification already covers this change.
			select {
			case fs.events <- struct{}{}:
			default:
			}

		case err, ok := <-fs.watcher.Errors:
			if !ok {
				return
			}
			select {
			case fs.errors <- err:
			default:
			}

		case <-fs.stopChan:
			return
		}
	}
}

// relevant reports whether event concerns the watched file's content.
func (fs *FileSource) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != fs.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}
