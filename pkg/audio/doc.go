// Package audio is the umbrella for voicelock's audio sub-packages:
//
//   - pcm: sample formats and float32 buffers
//   - wav: WAVE file load/save with downmix and resampling
//   - fbank: framing, FFT and mel filterbank analysis
//   - portaudio: microphone capture and speaker playback (cgo)
//
// Example usage:
//
//	buf, err := wav.Load("reference.wav", pcm.L16Mono16K)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(buf.Duration())
package audio
