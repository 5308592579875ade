// Package gallery is the HTTP client for a paginated photo gallery.
//
// A listing page is requested as {base}?groupId={id}&page={n} and answers
//
//	{ "data": { "data": [ { "fileName": "...", "processedFile": { "uri": "..." } } ] } }
//
// FetchPage returns the elements of one page undecoded; DecodeRecord turns
// each into a PhotoRecord as it is processed, reporting contract errors for
// malformed elements or absent fields. OpenImage returns the body of one
// image for streaming to disk. Failures are *errors.Error values typed
// network, http_status or parsing.
package gallery
