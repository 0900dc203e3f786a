package buffer

// Option configures a Buffer at construction time.
type Option func(*Buffer)

// WithTabWidth sets the tab width used for layout hints.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}
