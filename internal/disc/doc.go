// Package disc talks to the optical drive: media presence, insertion
// events, and tray control.
package disc
