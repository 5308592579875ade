// Package storage manages the output folder of a run.
//
// The folder is created once, idempotently, when the Manager is built. A
// photo counts as downloaded when any entry with its file name exists there;
// contents are never inspected. Save creates or truncates the destination and
// streams the image straight into it, so an interrupted copy leaves a partial
// file that later runs will treat as present.
//
//	manager, err := storage.NewManager("./RacePhotos")
//	if err != nil {
//	    return err
//	}
//	if !manager.Exists(rec.FileName) {
//	    n, err := manager.Save(body, rec.FileName)
//	    ...
//	}
package storage
