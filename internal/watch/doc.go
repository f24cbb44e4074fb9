// Package watch reports changes to individual files.
//
// Files are watched through their parent directories so editors that save by
// renaming a temporary file over the original are still seen. Bursts of
// events are debounced into one callback per file.
//
//	w := watch.New(watch.Config{Paths: []string{"index.html"}})
//	w.OnChange(func(path string) { reload(path) })
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop()
package watch
