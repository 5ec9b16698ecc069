package xmkit

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// DefaultSampleRate is the rate samples are exported at when none is given;
// the rate of C-4 with no finetune or relative note on the linear table.
const DefaultSampleRate = 8363

// Wav returns the decoded sample as a mono .wav file. 16-bit samples are
// written as signed 16-bit PCM, 8-bit samples as unsigned 8-bit PCM. A
// sampleRate <= 0 means DefaultSampleRate.
func (s *Sample) Wav(sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	buf := new(bytes.Buffer)
	wavHeader(s.Len(), s.Is16Bit(), sampleRate, buf)
	if err := s.rawToBuffer(buf); err != nil {
		return nil, fmt.Errorf("Wav failed: %v", err)
	}
	if buf.Len()&1 == 1 {
		buf.WriteByte(0)
	}
	return buf.Bytes(), nil
}

// Raw returns the decoded sample as headerless little-endian PCM, in the
// same format as Wav.
func (s *Sample) Raw() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := s.rawToBuffer(buf); err != nil {
		return nil, fmt.Errorf("Raw failed: %v", err)
	}
	return buf.Bytes(), nil
}

func (s *Sample) rawToBuffer(buf *bytes.Buffer) error {
	var err error
	if s.Is16Bit() {
		err = binary.Write(buf, binary.LittleEndian, s.Signed16())
	} else {
		_, err = buf.Write(s.Unsigned8())
	}
	if err != nil {
		return fmt.Errorf("could not binary write data to binary buffer: %v", err)
	}
	return nil
}

// wavHeader writes a PCM wave header for a mono sample of the given number
// of frames into the bytes.buffer. If pcm16 = true, then the header is for
// int16 audio; pcm16 = false means the header is for uint8 audio.
func wavHeader(frames int, pcm16 bool, sampleRate int, buf *bytes.Buffer) {
	// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
	numChannels := 1
	bytesPerSample := 1
	if pcm16 {
		bytesPerSample = 2
	}
	dataSize := bytesPerSample * frames
	padding := dataSize & 1 // chunks are word aligned
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize+padding))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*numChannels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(numChannels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                      // bits per sample
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
}
