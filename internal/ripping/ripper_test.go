package ripping

import "testing"

const sampleTOC = `cdparanoia III release 10.2

Table of contents (audio tracks only):
track        length               begin        copy pre ch
===========================================================
  1.    21660 [04:48.60]        0 [00:00.00]    no   no  2
  2.    19447 [04:19.22]    21660 [04:48.60]    no   no  2
  3.    17303 [03:50.53]    41107 [09:08.07]    no   no  2
 10.    16930 [03:45.55]    58410 [12:58.60]    no   no  2
TOTAL  258340 [57:24.40]    (audio only)
`

func TestParseTrackCount(t *testing.T) {
	if got := ParseTrackCount(sampleTOC); got != 10 {
		t.Fatalf("expected 10 tracks, got %d", got)
	}
}

func TestParseTrackCountEmptyOutput(t *testing.T) {
	if got := ParseTrackCount("no disc in drive\n"); got != 0 {
		t.Fatalf("expected 0 tracks, got %d", got)
	}
}
