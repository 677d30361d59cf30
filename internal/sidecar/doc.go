// Package sidecar reads and writes the rip_info.json document that
// travels with each ripped album and records what was ripped, how it
// was identified, and what metadata was chosen.
package sidecar
