// Package fetcher downloads a release archive and unpacks it while it streams.
//
// The archive is never stored on disk: the response body goes through a
// progress bar, the decompressor named by the platform descriptor and a tar
// reader straight into the destination directory. Existing files are never
// overwritten.
package fetcher
