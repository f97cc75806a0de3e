package pipeline

// Sink consumes progress events.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Notify sends evt to sink when sink is non-nil.
func Notify(sink Sink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
