package session

// Screen identifies a state variant.
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenHome
	ScreenHomework
	ScreenFeedback
	ScreenSpatial
)

func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenHome:
		return "home"
	case ScreenHomework:
		return "homework"
	case ScreenFeedback:
		return "feedback"
	case ScreenSpatial:
		return "spatial"
	default:
		return "unknown"
	}
}

// Mode is the active sub-state of a screen.
type Mode int

const (
	// Viewing is the idle mode of the homework and feedback screens.
	Viewing Mode = iota
	RecordingVoice
	RecordingPhoto
	AwaitingCommand
	AskingQuestion
	GemmaResponding
	Translating

	// AwaitingPhoto is the idle mode of the spatial screen.
	AwaitingPhoto
	ProcessingPhoto
)

func (m Mode) String() string {
	switch m {
	case Viewing:
		return "VIEWING"
	case RecordingVoice:
		return "RECORDING_VOICE"
	case RecordingPhoto:
		return "RECORDING_PHOTO"
	case AwaitingCommand:
		return "AWAITING_COMMAND"
	case AskingQuestion:
		return "ASKING_QUESTION"
	case GemmaResponding:
		return "GEMMA_RESPONDING"
	case Translating:
		return "TRANSLATING"
	case AwaitingPhoto:
		return "AWAITING_PHOTO"
	case ProcessingPhoto:
		return "PROCESSING_PHOTO"
	default:
		return "UNKNOWN"
	}
}

// screenModes lists the modes each screen may be in.
var screenModes = map[Screen][]Mode{
	ScreenHomework: {Viewing, RecordingVoice, RecordingPhoto, AwaitingCommand, AskingQuestion, GemmaResponding, Translating},
	ScreenFeedback: {Viewing, AwaitingCommand, AskingQuestion, GemmaResponding, Translating},
	ScreenSpatial:  {AwaitingPhoto, ProcessingPhoto, GemmaResponding, AwaitingCommand},
}

// Allowed reports whether m is a valid mode on screen s.
func Allowed(s Screen, m Mode) bool {
	for _, allowed := range screenModes[s] {
		if allowed == m {
			return true
		}
	}
	return false
}

// IdleMode returns the mode a screen returns to when nothing is running.
func IdleMode(s Screen) Mode {
	if s == ScreenSpatial {
		return AwaitingPhoto
	}
	return Viewing
}

// Gesture is a touch gesture from the front end.
type Gesture int

const (
	Tap Gesture = iota
	DoubleTap
	LongPress
)

func (g Gesture) String() string {
	switch g {
	case Tap:
		return "tap"
	case DoubleTap:
		return "double-tap"
	case LongPress:
		return "long-press"
	default:
		return "unknown"
	}
}

// Target is a navigation destination.
type Target int

const (
	ToHome Target = iota
	ToHomework
	ToFeedback
	ToSpatial
	ToNext
	ToPrevious
)

func (t Target) String() string {
	switch t {
	case ToHome:
		return "home"
	case ToHomework:
		return "homework"
	case ToFeedback:
		return "feedback"
	case ToSpatial:
		return "spatial"
	case ToNext:
		return "next"
	case ToPrevious:
		return "previous"
	default:
		return "unknown"
	}
}
