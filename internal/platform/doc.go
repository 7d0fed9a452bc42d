// Package platform contains OS integration helpers shared by the services:
// filesystem utilities, filename sanitization, and PATH lookups for the
// external ffmpeg tooling.
package platform
