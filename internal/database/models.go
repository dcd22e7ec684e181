package database

import "time"

// Delivery records one attempt to copy a source message into a destination chat.
// Rows sharing a BatchID belong to the same /send or /broadcast command.
type Delivery struct {
	ID        int64     `db:"id"`
	BatchID   string    `db:"batch_id"`
	CreatedAt time.Time `db:"created_at"`

	SourceChatID    int64  `db:"source_chat_id"`
	SourceMessageID int    `db:"source_message_id"`
	TargetChatID    int64  `db:"target_chat_id"`
	TargetName      string `db:"target_name"`
	CopiedMessageID int    `db:"copied_message_id"`

	Success bool   `db:"success"`
	Error   string `db:"error"`
}
