// Package upload implements the file ingestion control. Selected files become
// immutable Record values held in an ordered list; the whole list is the
// control's value and is pushed to the host after every user driven change.
//
// Images get a base64 data URI preview. Reading it is asynchronous: each read
// carries a Token and its completion is folded onto the latest list only while
// the token is still live. Records are appended in completion order, so a
// non-image added after an image can appear first.
package upload
