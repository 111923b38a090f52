package server

import (
	"testing"
	"time"
)

func TestWebLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-123", messageChan)

	logger.Printf("%s\n", "Test log message")

	select {
	case msg := <-messageChan:
		if msg.Message != "Test log message" {
			t.Errorf("Expected trailing newline to be trimmed, got %q", msg.Message)
		}
		if msg.RenderID != "test-render-123" {
			t.Errorf("Expected render ID 'test-render-123', got %q", msg.RenderID)
		}
		if msg.Level != "info" {
			t.Errorf("Expected level 'info', got %q", msg.Level)
		}
		if time.Since(msg.Timestamp) > time.Second {
			t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
		}
	default:
		t.Error("Expected a console message")
	}
}

func TestWebLogger_Levels(t *testing.T) {
	tests := []struct {
		message string
		level   string
	}{
		{"Rendered 20 rows", "info"},
		{"Snapshot failed: disk full", "error"},
		{"Render error: cancelled", "error"},
		{"Warning: skipping broken.ply", "warning"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			messageChan := make(chan ConsoleMessage, 1)
			NewWebLogger("levels", messageChan).Printf("%s\n", tt.message)
			msg := <-messageChan
			if msg.Level != tt.level {
				t.Errorf("Expected level %q, got %q", tt.level, msg.Level)
			}
		})
	}
}

func TestWebLogger_PreservesOrder(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-456", messageChan)

	messages := []string{"Message 1", "Message 2", "Message 3"}
	for _, msg := range messages {
		logger.Printf("%s\n", msg)
	}

	for i, expected := range messages {
		msg := <-messageChan
		if msg.Message != expected {
			t.Errorf("Message %d: expected %q, got %q", i, expected, msg.Message)
		}
	}
}

func TestWebLogger_ChannelFullDoesNotBlock(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("test-render-789", messageChan)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			logger.Printf("Message %d\n", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Logger blocked on a full channel")
	}

	if msg := <-messageChan; msg.Message != "Message 0" {
		t.Errorf("Expected the first message to be kept, got %q", msg.Message)
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("test-render-nil", nil)
	logger.Printf("Test message with nil channel\n")
}
