// Package portaudio records from the microphone and plays through the
// speakers using the PortAudio C library.
//
// Building requires PortAudio development files visible to pkg-config
// (brew install portaudio, apt install portaudio19-dev).
package portaudio

/*
#cgo pkg-config: portaudio-2.0

#include <portaudio.h>
#include <stdlib.h>
#include <string.h>

// Wrapper functions using void* to avoid CGO type issues with PaStream
static PaError pa_open_stream(void **stream,
                              const PaStreamParameters *inputParams,
                              const PaStreamParameters *outputParams,
                              double sampleRate,
                              unsigned long framesPerBuffer,
                              PaStreamFlags streamFlags) {
    return Pa_OpenStream((PaStream**)stream, inputParams, outputParams, sampleRate,
                         framesPerBuffer, streamFlags, NULL, NULL);
}

static PaError pa_start_stream(void *stream) {
    return Pa_StartStream((PaStream*)stream);
}

static PaError pa_stop_stream(void *stream) {
    return Pa_StopStream((PaStream*)stream);
}

static PaError pa_close_stream(void *stream) {
    return Pa_CloseStream((PaStream*)stream);
}

static PaError pa_read_stream(void *stream, void *buffer, unsigned long frames) {
    return Pa_ReadStream((PaStream*)stream, buffer, frames);
}

static PaError pa_write_stream(void *stream, const void *buffer, unsigned long frames) {
    return Pa_WriteStream((PaStream*)stream, buffer, frames);
}
*/
import "C"

import (
	"errors"
	"sync"
	"unsafe"
)

var (
	// ErrNoDevice is returned when the requested or default device is missing.
	ErrNoDevice = errors.New("portaudio: no such device")

	// ErrStreamClosed is returned when using a closed Stream.
	ErrStreamClosed = errors.New("portaudio: stream closed")
)

// DefaultDevice selects the system default device.
const DefaultDevice = -1

var (
	initOnce sync.Once
	initErr  error
)

func paError(code C.PaError) error {
	if code == C.paNoError {
		return nil
	}
	return errors.New("portaudio: " + C.GoString(C.Pa_GetErrorText(code)))
}

// Initialize initializes the PortAudio library. It is safe to call multiple
// times; only the first call has an effect.
func Initialize() error {
	initOnce.Do(func() {
		initErr = paError(C.Pa_Initialize())
	})
	return initErr
}

// Terminate releases the PortAudio library.
func Terminate() error {
	return paError(C.Pa_Terminate())
}

// DeviceInfo describes an audio device.
type DeviceInfo struct {
	Index             int     `json:"index" yaml:"index"`
	Name              string  `json:"name" yaml:"name"`
	MaxInputChannels  int     `json:"max_input_channels" yaml:"max_input_channels"`
	MaxOutputChannels int     `json:"max_output_channels" yaml:"max_output_channels"`
	DefaultSampleRate float64 `json:"default_sample_rate" yaml:"default_sample_rate"`
	IsDefaultInput    bool    `json:"default_input,omitempty" yaml:"default_input,omitempty"`
	IsDefaultOutput   bool    `json:"default_output,omitempty" yaml:"default_output,omitempty"`

	inputLatency  float64
	outputLatency float64
}

func deviceInfo(idx C.PaDeviceIndex) (DeviceInfo, bool) {
	info := C.Pa_GetDeviceInfo(idx)
	if info == nil {
		return DeviceInfo{}, false
	}
	return DeviceInfo{
		Index:             int(idx),
		Name:              C.GoString(info.name),
		MaxInputChannels:  int(info.maxInputChannels),
		MaxOutputChannels: int(info.maxOutputChannels),
		DefaultSampleRate: float64(info.defaultSampleRate),
		IsDefaultInput:    idx == C.Pa_GetDefaultInputDevice(),
		IsDefaultOutput:   idx == C.Pa_GetDefaultOutputDevice(),
		inputLatency:      float64(info.defaultLowInputLatency),
		outputLatency:     float64(info.defaultLowOutputLatency),
	}, true
}

// Devices lists the available audio devices.
func Devices() ([]DeviceInfo, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}

	count := int(C.Pa_GetDeviceCount())
	if count < 0 {
		return nil, paError(C.PaError(count))
	}

	devices := make([]DeviceInfo, 0, count)
	for i := 0; i < count; i++ {
		if d, ok := deviceInfo(C.PaDeviceIndex(i)); ok {
			devices = append(devices, d)
		}
	}
	return devices, nil
}

// Device returns the device at index, or the default input or output device
// when index is DefaultDevice.
func Device(index int, input bool) (DeviceInfo, error) {
	if err := Initialize(); err != nil {
		return DeviceInfo{}, err
	}

	idx := C.PaDeviceIndex(index)
	if index == DefaultDevice {
		if input {
			idx = C.Pa_GetDefaultInputDevice()
		} else {
			idx = C.Pa_GetDefaultOutputDevice()
		}
	}
	if idx == C.paNoDevice || idx < 0 || idx >= C.Pa_GetDeviceCount() {
		return DeviceInfo{}, ErrNoDevice
	}
	d, ok := deviceInfo(idx)
	if !ok {
		return DeviceInfo{}, ErrNoDevice
	}
	return d, nil
}

// Stream is a blocking 16-bit PCM stream on one device.
type Stream struct {
	mu       sync.Mutex
	stream   unsafe.Pointer
	buffer   unsafe.Pointer
	frames   int
	channels int
	closed   bool
}

// openStream opens a blocking input (input == true) or output stream on
// device.
func openStream(device, channels int, input bool, sampleRate float64, framesPerBuffer int) (*Stream, error) {
	d, err := Device(device, input)
	if err != nil {
		return nil, err
	}

	params := &C.PaStreamParameters{
		device:       C.PaDeviceIndex(d.Index),
		channelCount: C.int(channels),
		sampleFormat: C.paInt16,
	}
	var inputParams, outputParams *C.PaStreamParameters
	if input {
		if d.MaxInputChannels < channels {
			return nil, ErrNoDevice
		}
		params.suggestedLatency = C.PaTime(d.inputLatency)
		inputParams = params
	} else {
		if d.MaxOutputChannels < channels {
			return nil, ErrNoDevice
		}
		params.suggestedLatency = C.PaTime(d.outputLatency)
		outputParams = params
	}

	var paStream unsafe.Pointer
	err = paError(C.pa_open_stream(
		&paStream,
		inputParams,
		outputParams,
		C.double(sampleRate),
		C.ulong(framesPerBuffer),
		C.paClipOff,
	))
	if err != nil {
		return nil, err
	}

	return &Stream{
		stream:   paStream,
		buffer:   C.malloc(C.size_t(framesPerBuffer * channels * 2)),
		frames:   framesPerBuffer,
		channels: channels,
	}, nil
}

// Start starts the stream.
func (s *Stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	return paError(C.pa_start_stream(s.stream))
}

// Close stops the stream and frees its buffer.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	C.pa_stop_stream(s.stream)
	err := paError(C.pa_close_stream(s.stream))
	C.free(s.buffer)
	return err
}

// Read blocks until one buffer of frames is available and returns it.
func (s *Stream) Read() ([]int16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStreamClosed
	}
	if err := paError(C.pa_read_stream(s.stream, s.buffer, C.ulong(s.frames))); err != nil {
		return nil, err
	}

	samples := make([]int16, s.frames*s.channels)
	C.memcpy(unsafe.Pointer(&samples[0]), s.buffer, C.size_t(len(samples)*2))
	return samples, nil
}

// Write plays samples, splitting them into buffer-sized writes.
func (s *Stream) Write(samples []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	step := s.frames * s.channels
	for len(samples) > 0 {
		n := min(step, len(samples))
		C.memcpy(s.buffer, unsafe.Pointer(&samples[0]), C.size_t(n*2))
		if err := paError(C.pa_write_stream(s.stream, s.buffer, C.ulong(n/s.channels))); err != nil {
			return err
		}
		samples = samples[n:]
	}
	return nil
}
