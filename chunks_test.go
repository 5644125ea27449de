package flic

import "testing"

func TestChunkModifiesPalette(t *testing.T) {
	paletteChunks := []uint16{chunkColor256, chunkColor64, chunkICOLORS}
	for _, magic := range paletteChunks {
		if !chunkModifiesPalette(magic) {
			t.Fatalf("chunk %#x should modify the palette", magic)
		}
	}

	pixelChunks := []uint16{chunkWRUN, chunkSS2, chunkSBSRSC, chunkLC, chunkBlack, chunkBRUN, chunkCopy, chunkPstamp}
	for _, magic := range pixelChunks {
		if chunkModifiesPalette(magic) {
			t.Fatalf("chunk %#x should not modify the palette", magic)
		}
	}
}
