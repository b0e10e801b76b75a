// Package flash stores one-shot messages in the session for the next page.
package flash

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/portfolio-cms/internal/logger"
)

// Message categories, also used as CSS modifiers by the layout.
const (
	Success = "success"
	Info    = "info"
	Error   = "error"
)

var categories = []string{Error, Info, Success}

// Message is a flash message ready for rendering.
type Message struct {
	Category string
	Text     string
}

func key(category string) string {
	return "_flash_" + category
}

// Add queues a message and saves the session.
func Add(c *gin.Context, category, text string) {
	session := sessions.Default(c)
	session.AddFlash(text, key(category))
	if err := session.Save(); err != nil {
		logger.Log.Errorw("failed to save flash message", "error", err)
	}
}

// Pop returns and clears the queued messages, errors first.
func Pop(c *gin.Context) []Message {
	session := sessions.Default(c)

	var messages []Message
	for _, category := range categories {
		for _, f := range session.Flashes(key(category)) {
			if text, ok := f.(string); ok {
				messages = append(messages, Message{Category: category, Text: text})
			}
		}
	}
	if len(messages) > 0 {
		if err := session.Save(); err != nil {
			logger.Log.Errorw("failed to save session", "error", err)
		}
	}
	return messages
}
