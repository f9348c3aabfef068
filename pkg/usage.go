package segmenter

import "golang.org/x/exp/slices"

// ChannelUsage records, per PMT, the windows that already received a digit
// from it. It only lives for the duration of one event.
type ChannelUsage map[int]map[int]bool

// NewChannelUsage preallocates entries for tubes 0..nChannels. Tubes outside
// that range are added on demand.
func NewChannelUsage(nChannels int) ChannelUsage {
	if nChannels < 0 {
		nChannels = 0
	}
	u := make(ChannelUsage, nChannels+1)
	for i := 0; i <= nChannels; i++ {
		u[i] = make(map[int]bool)
	}
	return u
}

func (u ChannelUsage) Used(channel, window int) bool {
	return u[channel][window]
}

func (u ChannelUsage) Mark(channel, window int) {
	windows, ok := u[channel]
	if !ok {
		windows = make(map[int]bool)
		u[channel] = windows
	}
	windows[window] = true
}

func (u ChannelUsage) Reset() {
	for _, windows := range u {
		clear(windows)
	}
}

// Channels returns the sorted list of tubes used in at least one window.
func (u ChannelUsage) Channels() []int {
	channels := make([]int, 0, len(u))
	for channel, windows := range u {
		if len(windows) > 0 {
			channels = append(channels, channel)
		}
	}
	slices.Sort(channels)
	return channels
}

// Windows returns the sorted windows in which channel was used.
func (u ChannelUsage) Windows(channel int) []int {
	windows := make([]int, 0, len(u[channel]))
	for window, used := range u[channel] {
		if used {
			windows = append(windows, window)
		}
	}
	slices.Sort(windows)
	return windows
}
