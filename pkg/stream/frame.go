package stream

// Frame types emitted over the streaming channel.
const (
	FrameThreadID = "threadId"
	FrameContent  = "content"
	FrameDone     = "done"
)

// Frame is one event in the response stream. Exactly one of ThreadID or
// Content is set depending on Type; a done frame carries neither.
type Frame struct {
	Type     string `json:"type"`
	ThreadID string `json:"threadId,omitempty"`
	Content  string `json:"content,omitempty"`
}

func ThreadIDFrame(id string) Frame {
	return Frame{Type: FrameThreadID, ThreadID: id}
}

func ContentFrame(text string) Frame {
	return Frame{Type: FrameContent, Content: text}
}

func DoneFrame() Frame {
	return Frame{Type: FrameDone}
}

// Emitter receives frames in order. Implementations must not retain the
// frame past the call.
type Emitter interface {
	Emit(frame Frame) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(frame Frame) error

func (f EmitterFunc) Emit(frame Frame) error {
	return f(frame)
}

// Collector buffers content frames and records the thread id, for callers
// that want a single aggregated response instead of a stream.
type Collector struct {
	ThreadID string
	parts    []string
}

func (c *Collector) Emit(frame Frame) error {
	switch frame.Type {
	case FrameThreadID:
		c.ThreadID = frame.ThreadID
	case FrameContent:
		c.parts = append(c.parts, frame.Content)
	}
	return nil
}

// Message returns the concatenated content received so far.
func (c *Collector) Message() string {
	joined := ""
	for _, p := range c.parts {
		joined += p
	}
	return joined
}
