// Package storage writes downloaded wallpapers into the target directory.
//
// The Manager never creates the directory; it must already exist. Each
// write goes to a temporary file in the same directory which is synced,
// closed and then renamed onto the final name, so a reader never sees a
// partial image at the final path.
//
// Usage:
//
//	manager, err := storage.NewManager("/home/me/Pictures")
//	if err != nil {
//	    return err
//	}
//
//	exists, err := manager.Exists("04242_nightfall_1920x1080.jpg")
//	if err == nil && !exists {
//	    _, err = manager.Save(body, "04242_nightfall_1920x1080.jpg")
//	}
package storage
