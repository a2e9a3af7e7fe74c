package webhooks

import "fmt"

// ReplyFor maps an inbound message to its echo reply text. Text messages
// get their body quoted back; media types get a canned acknowledgment.
func ReplyFor(messageType, text string) string {
	switch messageType {
	case "text":
		if text != "" {
			return fmt.Sprintf(`You said: "%s"`, text)
		}
		return "I received your message!"
	case "image":
		return "I received your image! 📷"
	case "audio":
		return "I received your audio message! 🎵"
	case "video":
		return "I received your video! 🎬"
	case "document":
		return "I received your document! 📄"
	default:
		return "I received your message!"
	}
}
