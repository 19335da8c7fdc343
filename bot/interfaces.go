package bot

// Logger is the minimal logging abstraction used across modules.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// LinkCleaner turns message text into the cleaned links it contains.
type LinkCleaner interface {
	Process(text string) []string
}
