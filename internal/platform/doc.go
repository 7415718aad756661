// Package platform describes the release archive layout of each supported
// operating system and architecture.
//
// A Descriptor carries everything that differs between targets: the URL
// segment of the download, the folder the archive unpacks into, the
// executable inside it and the archive compression. Only linux/amd64 is
// registered; another target needs a new descriptor, not new branches.
package platform
