// Package fetch implements the loader behind the image engine.
//
// A [Client] resolves a locator to source bytes, decodes them and scales the result
// to fit the requested size. Remote locators (http, https) go through an optional
// [DiskCache] first, so thumbnails survive restarts; local paths are read directly.
//
// Every failure is an [imagecache.FetchError]:
//
//   - missing local file, HTTP 404/410 or empty locator: ErrSourceMissing
//   - transport error, timeout or any other HTTP status: ErrNetwork
//   - bytes that are not a supported image: ErrDecode
//
// Supported formats are PNG, JPEG, GIF, BMP and WebP.
package fetch
