package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWAV(t *testing.T, extraChunk bool, pcm []byte) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString("WAVE")
	if extraChunk {
		body.WriteString("LIST")
		require.NoError(t, binary.Write(&body, binary.LittleEndian, uint32(4)))
		body.WriteString("INFO")
	}
	body.WriteString("fmt ")
	require.NoError(t, binary.Write(&body, binary.LittleEndian, uint32(16)))
	for _, v := range []any{
		uint16(1),     // PCM
		uint16(2),     // channels
		uint32(44100), // sample rate
		uint32(44100 * 4),
		uint16(4),
		uint16(16), // bits per sample
	} {
		require.NoError(t, binary.Write(&body, binary.LittleEndian, v))
	}
	body.WriteString("data")
	require.NoError(t, binary.Write(&body, binary.LittleEndian, uint32(len(pcm))))
	body.Write(pcm)

	var out bytes.Buffer
	out.WriteString("RIFF")
	require.NoError(t, binary.Write(&out, binary.LittleEndian, uint32(body.Len())))
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestParseWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	for _, extra := range []bool{false, true} {
		format, data, err := ParseWAV(buildWAV(t, extra, pcm))
		require.NoError(t, err)
		assert.Equal(t, Format{SampleRate: 44100, Channels: 2, BitDepth: 16}, format)
		assert.Equal(t, pcm, data)
	}
}

func TestParseWAVTruncatedData(t *testing.T) {
	wav := buildWAV(t, false, []byte{1, 2, 3, 4})
	_, data, err := ParseWAV(wav[:len(wav)-2])
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, data)
}

func TestParseWAVRejects(t *testing.T) {
	_, _, err := ParseWAV([]byte("RIFF"))
	assert.Error(t, err)

	_, _, err = ParseWAV([]byte("RIFF\x00\x00\x00\x00AVI LIST"))
	assert.ErrorContains(t, err, "not a RIFF/WAVE")

	noData := buildWAV(t, false, nil)
	_, _, err = ParseWAV(noData[:len(noData)-8])
	assert.ErrorContains(t, err, "no data chunk")
}

func TestNilPlayerIsSafe(t *testing.T) {
	var p *Player
	p.Stop()
	p.Wait()
}
