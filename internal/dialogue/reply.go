package dialogue

// Keyboard tells the transport which reply keyboard to attach.
type Keyboard int

const (
	// KeepKeyboard leaves whatever keyboard the user currently sees.
	KeepKeyboard Keyboard = iota
	MainMenu
	ConfirmMenu
	ExitMenu
	RemoveKeyboard
)

// Message is one inbound text from a chat user.
type Message struct {
	UserID int64
	Text   string
	Locale string
}

// Attachment is a file sent along with a reply.
type Attachment struct {
	Filename string
	MIME     string
	Data     []byte
}

// Reply is one outbound message. Text is plain, never markup.
type Reply struct {
	Text       string
	Keyboard   Keyboard
	Attachment *Attachment
}
