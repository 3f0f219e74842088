package mp4engine

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/videoread/pkg/ports"
)

const (
	fixtureWidth  = 4
	fixtureHeight = 4
	fixtureFrames = 30
)

// framePayload builds a uniform RGB24 frame whose every channel is the
// frame index, so decoded pixels identify the frame they came from.
func framePayload(i int) []byte {
	data := make([]byte, fixtureWidth*fixtureHeight*3)
	for p := range data {
		data[p] = byte(i)
	}
	return data
}

// writeFixture builds a fragmented MP4 with a raw RGB24 video track
// (keyframe every 10 frames) and optionally a PCM audio track, and
// writes it to a temp file.
func writeFixture(t *testing.T, withAudio bool) string {
	t.Helper()

	videoTimescale := uint32(30000)
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(videoTimescale, "video", "en")
	videoTrak := init.Moov.Traks[0]
	videoTrackID := videoTrak.Tkhd.TrackID

	entry := mp4.CreateVisualSampleEntryBox("raw ", fixtureWidth, fixtureHeight, nil)
	videoTrak.Mdia.Minf.Stbl.Stsd.AddChild(entry)
	videoTrak.Tkhd.Width = mp4.Fixed32(fixtureWidth << 16)
	videoTrak.Tkhd.Height = mp4.Fixed32(fixtureHeight << 16)

	var audioTrackID uint32
	if withAudio {
		init.AddEmptyTrack(8000, "audio", "en")
		audioTrak := init.Moov.Traks[1]
		audioTrackID = audioTrak.Tkhd.TrackID
		audioEntry := mp4.CreateAudioSampleEntryBox("sowt", 1, 16, 8000, nil)
		audioTrak.Mdia.Minf.Stbl.Stsd.AddChild(audioEntry)
	}

	frag, err := mp4.CreateFragment(1, videoTrackID)
	if err != nil {
		t.Fatalf("create video fragment: %v", err)
	}
	for i := 0; i < fixtureFrames; i++ {
		data := framePayload(i)
		flags := mp4.NonSyncSampleFlags
		if i%10 == 0 {
			flags = mp4.SyncSampleFlags
		}
		err := frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(data)),
				Dur:   1000,
			},
			DecodeTime: uint64(i) * 1000,
			Data:       data,
		})
		if err != nil {
			t.Fatalf("add video sample %d: %v", i, err)
		}
	}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		t.Fatalf("encode ftyp: %v", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		t.Fatalf("encode moov: %v", err)
	}
	if err := frag.Encode(&buf); err != nil {
		t.Fatalf("encode video fragment: %v", err)
	}

	if withAudio {
		audioFrag, err := mp4.CreateFragment(2, audioTrackID)
		if err != nil {
			t.Fatalf("create audio fragment: %v", err)
		}
		for i := 0; i < 10; i++ {
			data := []byte{byte(i), byte(i), byte(i), byte(i)}
			err := audioFrag.AddFullSample(mp4.FullSample{
				Sample: mp4.Sample{
					Flags: mp4.SyncSampleFlags,
					Size:  uint32(len(data)),
					Dur:   800,
				},
				DecodeTime: uint64(i) * 800,
				Data:       data,
			})
			if err != nil {
				t.Fatalf("add audio sample %d: %v", i, err)
			}
		}
		if err := audioFrag.Encode(&buf); err != nil {
			t.Fatalf("encode audio fragment: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "fixture.mp4")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func openFixture(t *testing.T, withAudio bool) ports.Container {
	t.Helper()
	engine := New(Options{})
	c, err := engine.OpenContainer(writeFixture(t, withAudio))
	if err != nil {
		t.Fatalf("OpenContainer failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpenMissingFile(t *testing.T) {
	engine := New(Options{})
	_, err := engine.OpenContainer(filepath.Join(t.TempDir(), "missing.mp4"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOpenExposesInfo(t *testing.T) {
	c := openFixture(t, true)
	info := c.Info()

	if !info.HasVideo {
		t.Error("expected HasVideo")
	}
	if info.Width != fixtureWidth || info.Height != fixtureHeight {
		t.Errorf("size %dx%d, want %dx%d", info.Width, info.Height, fixtureWidth, fixtureHeight)
	}
	if info.FrameRate != 30 {
		t.Errorf("FrameRate = %d, want 30", info.FrameRate)
	}
	if info.FrameCount != fixtureFrames {
		t.Errorf("FrameCount = %d, want %d", info.FrameCount, fixtureFrames)
	}
	if info.CodecName != "rawvideo" {
		t.Errorf("CodecName = %q, want rawvideo", info.CodecName)
	}
	if math.Abs(info.Duration-1.0) > 1e-9 {
		t.Errorf("Duration = %f, want 1.0", info.Duration)
	}
	if !info.HasAudio {
		t.Error("expected HasAudio")
	}
	if info.SampleRate != 8000 || info.Channels != 1 {
		t.Errorf("audio %dHz x%d, want 8000Hz x1", info.SampleRate, info.Channels)
	}
}

func TestVideoPacketsInOrderThenEOF(t *testing.T) {
	c := openFixture(t, false)

	for i := 0; i < fixtureFrames; i++ {
		pkt, err := c.NextPacket(ports.StreamVideo)
		if err != nil {
			t.Fatalf("NextPacket %d failed: %v", i, err)
		}
		wantTime := float64(i) / 30.0
		if math.Abs(pkt.Time-wantTime) > 1e-9 {
			t.Errorf("packet %d time = %f, want %f", i, pkt.Time, wantTime)
		}
		if pkt.Keyframe != (i%10 == 0) {
			t.Errorf("packet %d keyframe = %v", i, pkt.Keyframe)
		}
		if !bytes.Equal(pkt.Data, framePayload(i)) {
			t.Errorf("packet %d payload mismatch", i)
		}
	}
	if _, err := c.NextPacket(ports.StreamVideo); err != io.EOF {
		t.Fatalf("expected io.EOF after last packet, got %v", err)
	}
}

func TestDecodeAndConvertRoundTrip(t *testing.T) {
	c := openFixture(t, false)

	pkt, err := c.NextPacket(ports.StreamVideo)
	if err != nil {
		t.Fatalf("NextPacket failed: %v", err)
	}
	frame, err := c.DecodeVideo(pkt)
	if err != nil {
		t.Fatalf("DecodeVideo failed: %v", err)
	}
	if frame.Image == nil {
		t.Fatal("expected decoded image")
	}

	out, err := c.Convert(frame, 0, 0, ports.PixelRGB24, nil)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !bytes.Equal(out, framePayload(0)) {
		t.Error("native RGB24 conversion does not match the original payload")
	}
}

func TestConvertResizesAndPacks(t *testing.T) {
	c := openFixture(t, false)

	pkt, err := c.NextPacket(ports.StreamVideo)
	if err != nil {
		t.Fatalf("NextPacket failed: %v", err)
	}
	frame, err := c.DecodeVideo(pkt)
	if err != nil {
		t.Fatalf("DecodeVideo failed: %v", err)
	}

	rgb, err := c.Convert(frame, 2, 2, ports.PixelRGB24, nil)
	if err != nil {
		t.Fatalf("Convert RGB failed: %v", err)
	}
	if len(rgb) != 2*2*3 {
		t.Errorf("scaled RGB24 length = %d, want %d", len(rgb), 2*2*3)
	}

	gray, err := c.Convert(frame, 0, 0, ports.PixelGray8, nil)
	if err != nil {
		t.Fatalf("Convert gray failed: %v", err)
	}
	if len(gray) != fixtureWidth*fixtureHeight {
		t.Errorf("gray length = %d, want %d", len(gray), fixtureWidth*fixtureHeight)
	}
	for i, v := range gray {
		if v != 0 {
			t.Fatalf("gray[%d] = %d, want 0 for a black frame", i, v)
		}
	}
}

func TestConvertReusesBuffer(t *testing.T) {
	c := openFixture(t, false)

	pkt, err := c.NextPacket(ports.StreamVideo)
	if err != nil {
		t.Fatalf("NextPacket failed: %v", err)
	}
	frame, err := c.DecodeVideo(pkt)
	if err != nil {
		t.Fatalf("DecodeVideo failed: %v", err)
	}

	buf := make([]byte, 0, fixtureWidth*fixtureHeight*3)
	out, err := c.Convert(frame, 0, 0, ports.PixelRGB24, buf)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if &out[0] != &buf[:1][0] {
		t.Error("expected conversion to reuse the provided buffer")
	}
}

func TestSeekKeyframeOnly(t *testing.T) {
	c := openFixture(t, false)

	landed, err := c.Seek(0.5, true)
	if err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if math.Abs(landed-10.0/30.0) > 1e-9 {
		t.Errorf("landed at %f, want %f", landed, 10.0/30.0)
	}

	pkt, err := c.NextPacket(ports.StreamVideo)
	if err != nil {
		t.Fatalf("NextPacket failed: %v", err)
	}
	if !pkt.Keyframe {
		t.Error("expected keyframe after keyframe-only seek")
	}
	if !bytes.Equal(pkt.Data, framePayload(10)) {
		t.Error("expected frame 10 after seeking to 0.5s")
	}
}

func TestSeekAnySample(t *testing.T) {
	c := openFixture(t, false)

	landed, err := c.Seek(0.5, false)
	if err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if math.Abs(landed-0.5) > 1e-9 {
		t.Errorf("landed at %f, want 0.5", landed)
	}

	pkt, err := c.NextPacket(ports.StreamVideo)
	if err != nil {
		t.Fatalf("NextPacket failed: %v", err)
	}
	if !bytes.Equal(pkt.Data, framePayload(15)) {
		t.Error("expected frame 15 after exact seek to 0.5s")
	}
}

func TestSeekRepositionsAudio(t *testing.T) {
	c := openFixture(t, true)

	if _, err := c.Seek(0.5, false); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	pkt, err := c.NextPacket(ports.StreamAudio)
	if err != nil {
		t.Fatalf("NextPacket failed: %v", err)
	}
	// Audio samples are 0.1s apart; the cursor lands on the last one
	// at or before the landed video time.
	if pkt.Data[0] != 5 {
		t.Errorf("audio packet index = %d, want 5", pkt.Data[0])
	}
}

func TestAudioPacketsDecodeAsPCM(t *testing.T) {
	c := openFixture(t, true)

	for i := 0; i < 10; i++ {
		pkt, err := c.NextPacket(ports.StreamAudio)
		if err != nil {
			t.Fatalf("NextPacket %d failed: %v", i, err)
		}
		pcm, err := c.DecodeAudio(pkt)
		if err != nil {
			t.Fatalf("DecodeAudio %d failed: %v", i, err)
		}
		want := []byte{byte(i), byte(i), byte(i), byte(i)}
		if !bytes.Equal(pcm, want) {
			t.Errorf("packet %d PCM = %v, want %v", i, pcm, want)
		}
	}
	if _, err := c.NextPacket(ports.StreamAudio); err != io.EOF {
		t.Fatalf("expected io.EOF after last audio packet, got %v", err)
	}
}

func TestAudioStreamAbsent(t *testing.T) {
	c := openFixture(t, false)

	if c.Info().HasAudio {
		t.Error("expected no audio stream")
	}
	if _, err := c.NextPacket(ports.StreamAudio); err != io.EOF {
		t.Fatalf("expected io.EOF for absent stream, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	engine := New(Options{})
	c, err := engine.OpenContainer(writeFixture(t, false))
	if err != nil {
		t.Fatalf("OpenContainer failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if _, err := c.NextPacket(ports.StreamVideo); err == io.EOF || err == nil {
		t.Fatal("expected an error from NextPacket after Close")
	}
}

func TestAvccToAnnexB(t *testing.T) {
	avcc := []byte{
		0, 0, 0, 2, 0x09, 0xF0,
		0, 0, 0, 3, 0x41, 0x9A, 0x00,
	}
	want := []byte{
		0, 0, 0, 1, 0x09, 0xF0,
		0, 0, 0, 1, 0x41, 0x9A, 0x00,
	}
	got := avccToAnnexB(avcc)
	if !bytes.Equal(got, want) {
		t.Errorf("avccToAnnexB = %v, want %v", got, want)
	}

	// A truncated NALU length drops the tail instead of panicking.
	truncated := []byte{0, 0, 0, 9, 0x41}
	if got := avccToAnnexB(truncated); got != nil {
		t.Errorf("truncated input produced %v, want nil", got)
	}
}
