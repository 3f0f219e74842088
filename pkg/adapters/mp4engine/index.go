package mp4engine

import (
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"
)

// sampleRef locates one sample. Progressive samples stay on disk and
// carry a file offset; fragmented samples carry their payload, since
// mp4ff materializes fragment runs while walking the moof boxes.
type sampleRef struct {
	offset int64
	size   int
	data   []byte
	// time is the presentation time in seconds. Composition offsets
	// (ctts) are not applied: samples are exposed at their decode
	// times, which coincide for streams without frame reordering.
	time float64
	dur  float64
	sync bool
}

// track is an indexed elementary stream with a demux cursor.
type track struct {
	codec      string
	samples    []sampleRef
	cursor     int
	timescale  uint32
	width      int // video
	height     int // video
	sampleRate int // audio
	channels   int // audio
	sampleSize int // audio, bits per sample
	spsPPS     []byte
}

// duration returns the total indexed duration in seconds.
func (t *track) duration() float64 {
	if len(t.samples) == 0 {
		return 0
	}
	last := t.samples[len(t.samples)-1]
	return last.time + last.dur
}

// frameRate derives an integral frames-per-second from the index.
func (t *track) frameRate() int {
	d := t.duration()
	if d <= 0 {
		return 0
	}
	return int(float64(len(t.samples))/d + 0.5)
}

// index walks the parsed file and builds the per-track sample tables.
func (c *Container) index(f *mp4.File) error {
	if f.IsFragmented() {
		return c.indexFragmented(f)
	}
	return c.indexProgressive(f)
}

func (c *Container) indexProgressive(f *mp4.File) error {
	if f.Moov == nil {
		return fmt.Errorf("no moov box found")
	}
	for _, trak := range f.Moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
			continue
		}
		switch trak.Mdia.Hdlr.HandlerType {
		case "vide":
			if c.video == nil {
				t, err := progressiveTrack(trak)
				if err != nil {
					return err
				}
				describeVideo(t, trak)
				c.video = t
			}
		case "soun":
			if c.audio == nil {
				t, err := progressiveTrack(trak)
				if err != nil {
					return err
				}
				describeAudio(t, trak)
				c.audio = t
			}
		}
	}
	return nil
}

// progressiveTrack indexes one trak's stbl boxes: sizes from stsz,
// chunk placement from stsc+stco/co64, timing from stts, keyframes
// from stss (absent stss means every sample is a sync sample).
func progressiveTrack(trak *mp4.TrakBox) (*track, error) {
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz == nil || stbl.Stsc == nil {
		return nil, fmt.Errorf("track %d: incomplete sample table", trak.Tkhd.TrackID)
	}
	timescale := uint32(1000)
	if trak.Mdia.Mdhd != nil {
		timescale = trak.Mdia.Mdhd.Timescale
	}

	syncSamples := make(map[uint32]bool)
	if stbl.Stss != nil {
		for _, nr := range stbl.Stss.SampleNumber {
			syncSamples[nr] = true
		}
	}

	t := &track{timescale: timescale}
	sampleCount := stbl.Stsz.SampleNumber
	t.samples = make([]sampleRef, 0, sampleCount)

	for nr := uint32(1); nr <= sampleCount; nr++ {
		offset, err := sampleOffset(stbl, nr)
		if err != nil {
			return nil, fmt.Errorf("track %d sample %d: %w", trak.Tkhd.TrackID, nr, err)
		}
		var decTime uint64
		var dur uint32
		if stbl.Stts != nil {
			decTime, dur = stbl.Stts.GetDecodeTime(nr)
		}
		t.samples = append(t.samples, sampleRef{
			offset: offset,
			size:   int(stbl.Stsz.GetSampleSize(int(nr))),
			time:   float64(decTime) / float64(timescale),
			dur:    float64(dur) / float64(timescale),
			sync:   syncSamples[nr] || len(syncSamples) == 0,
		})
	}
	return t, nil
}

// sampleOffset resolves a sample number to its absolute file offset.
func sampleOffset(stbl *mp4.StblBox, sampleNr uint32) (int64, error) {
	chunkNr, firstSampleInChunk, err := stbl.Stsc.ChunkNrFromSampleNr(int(sampleNr))
	if err != nil {
		return 0, fmt.Errorf("get chunk nr: %w", err)
	}

	var chunkOffset uint64
	switch {
	case stbl.Stco != nil:
		chunkOffset, err = stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return 0, fmt.Errorf("get chunk offset: %w", err)
		}
	case stbl.Co64 != nil:
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return 0, fmt.Errorf("chunk nr %d out of range", chunkNr)
		}
		chunkOffset = stbl.Co64.ChunkOffset[chunkNr-1]
	default:
		return 0, fmt.Errorf("no stco or co64 box")
	}

	offset := chunkOffset
	for s := uint32(firstSampleInChunk); s < sampleNr; s++ {
		offset += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}
	return int64(offset), nil
}

func (c *Container) indexFragmented(f *mp4.File) error {
	if f.Init == nil || f.Init.Moov == nil {
		return fmt.Errorf("no init segment found")
	}

	type fragTrack struct {
		t       *track
		trackID uint32
		trex    *mp4.TrexBox
	}
	var tracks []*fragTrack

	for _, trak := range f.Init.Moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil {
			continue
		}
		timescale := uint32(1000)
		if trak.Mdia.Mdhd != nil {
			timescale = trak.Mdia.Mdhd.Timescale
		}
		t := &track{timescale: timescale}
		switch trak.Mdia.Hdlr.HandlerType {
		case "vide":
			if c.video != nil {
				continue
			}
			describeVideo(t, trak)
			c.video = t
		case "soun":
			if c.audio != nil {
				continue
			}
			describeAudio(t, trak)
			c.audio = t
		default:
			continue
		}
		ft := &fragTrack{t: t, trackID: trak.Tkhd.TrackID}
		if f.Init.Moov.Mvex != nil {
			for _, trex := range f.Init.Moov.Mvex.Trexs {
				if trex.TrackID == ft.trackID {
					ft.trex = trex
					break
				}
			}
		}
		tracks = append(tracks, ft)
	}

	for _, seg := range f.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				var ft *fragTrack
				for _, cand := range tracks {
					if cand.trackID == traf.Tfhd.TrackID {
						ft = cand
						break
					}
				}
				if ft == nil {
					continue
				}
				samples, err := frag.GetFullSamples(ft.trex)
				if err != nil {
					return fmt.Errorf("get samples for track %d: %w", ft.trackID, err)
				}
				var decodeTime uint64
				if traf.Tfdt != nil {
					decodeTime = traf.Tfdt.BaseMediaDecodeTime()
				}
				scale := float64(ft.t.timescale)
				for _, sample := range samples {
					ft.t.samples = append(ft.t.samples, sampleRef{
						data: sample.Data,
						size: len(sample.Data),
						time: float64(decodeTime) / scale,
						dur:  float64(sample.Dur) / scale,
						sync: sample.Flags == mp4.SyncSampleFlags || sample.Flags == 0,
					})
					decodeTime += uint64(sample.Dur)
				}
			}
		}
	}
	return nil
}

// describeVideo captures codec, dimensions and parameter sets from the
// trak's visual sample entry.
func describeVideo(t *track, trak *mp4.TrakBox) {
	if trak.Mdia.Minf == nil {
		return
	}
	stbl := trak.Mdia.Minf.Stbl
	if stbl == nil || stbl.Stsd == nil {
		return
	}
	for _, child := range stbl.Stsd.Children {
		entry, ok := child.(*mp4.VisualSampleEntryBox)
		if !ok {
			continue
		}
		t.codec = entry.Type()
		t.width = int(entry.Width)
		t.height = int(entry.Height)
		if entry.AvcC != nil {
			// SPS/PPS in Annex B form, prepended to keyframes before
			// they reach the H.264 decoder.
			for _, sps := range entry.AvcC.SPSnalus {
				t.spsPPS = append(t.spsPPS, 0, 0, 0, 1)
				t.spsPPS = append(t.spsPPS, sps...)
			}
			for _, pps := range entry.AvcC.PPSnalus {
				t.spsPPS = append(t.spsPPS, 0, 0, 0, 1)
				t.spsPPS = append(t.spsPPS, pps...)
			}
		}
		return
	}
}

// describeAudio captures codec and sample parameters from the trak's
// audio sample entry.
func describeAudio(t *track, trak *mp4.TrakBox) {
	if trak.Mdia.Minf == nil {
		return
	}
	stbl := trak.Mdia.Minf.Stbl
	if stbl == nil || stbl.Stsd == nil {
		return
	}
	for _, child := range stbl.Stsd.Children {
		entry, ok := child.(*mp4.AudioSampleEntryBox)
		if !ok {
			continue
		}
		t.codec = entry.Type()
		t.sampleRate = int(entry.SampleRate)
		t.channels = int(entry.ChannelCount)
		t.sampleSize = int(entry.SampleSize)
		return
	}
}

// payload returns the sample bytes, reading progressive samples from
// the file on demand.
func (c *Container) payload(ref sampleRef) ([]byte, error) {
	if ref.data != nil {
		return ref.data, nil
	}
	buf := make([]byte, ref.size)
	if _, err := c.file.ReadAt(buf, ref.offset); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read sample at %d: %w", ref.offset, err)
	}
	return buf, nil
}
