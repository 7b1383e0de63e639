// Package utils holds small conversion helpers for loosely typed input such as
// multipart form values and generic JSON bodies.
package utils
