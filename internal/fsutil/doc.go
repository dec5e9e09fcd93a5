// Package fsutil writes files so that readers only ever observe the old
// content or the complete new content: data goes to a temporary file in the
// target directory, is synced, renamed over the target, and the directory
// entry is synced.
package fsutil
