package handlers

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler represents a command handler with its description and middleware.
// It encapsulates all information needed to register and document a command.
// Handlers with a MatchFunc are registered with it instead of Pattern/MatchType.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
	MatchFunc   tgbot.MatchFunc
	Description string
}

// RegisterAllCommands initializes and returns a map of all available bot commands.
// Every command is restricted to the configured source chat.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	sourceOnly := []tgbot.Middleware{SourceChatOnly(deps)}

	handlers["/add"] = RegisteredHandler{
		Pattern:     "add",
		Handler:     NewAddHandler(deps),
		MatchFunc:   CommandMatcher("add"),
		Middleware:  sourceOnly,
		Description: "Add a group: /add <group_id> <group_name>",
	}
	handlers["/remove"] = RegisteredHandler{
		Pattern:     "remove",
		Handler:     NewRemoveHandler(deps),
		MatchFunc:   CommandMatcher("remove"),
		Middleware:  sourceOnly,
		Description: "Remove a group: /remove <group_id>",
	}
	handlers["/list"] = RegisteredHandler{
		Pattern:     "list",
		Handler:     NewListHandler(deps),
		MatchFunc:   CommandMatcher("list"),
		Middleware:  sourceOnly,
		Description: "List all target groups",
	}
	handlers["/help"] = RegisteredHandler{
		Pattern:     "help",
		Handler:     NewHelpHandler(deps),
		MatchFunc:   CommandMatcher("help"),
		Middleware:  sourceOnly,
		Description: "Show the command manual",
	}
	handlers["/history"] = RegisteredHandler{
		Pattern:     "history",
		Handler:     NewHistoryHandler(deps),
		MatchFunc:   CommandMatcher("history"),
		Middleware:  sourceOnly,
		Description: "Show recent delivery attempts",
	}

	// Forwarding commands must be replies and may arrive as channel posts.
	handlers["/send"] = RegisteredHandler{
		Pattern:     "send",
		Handler:     NewSendHandler(deps),
		MatchFunc:   ForwardCommandMatcher("send", true),
		Middleware:  sourceOnly,
		Description: "Reply to a message: /send <name1>,<name2>",
	}
	handlers["/broadcast"] = RegisteredHandler{
		Pattern:     "broadcast",
		Handler:     NewBroadcastHandler(deps),
		MatchFunc:   ForwardCommandMatcher("broadcast", false),
		Middleware:  sourceOnly,
		Description: "Reply to a message: copy it to every group",
	}

	return handlers
}

// CommandMatcher matches a message whose text starts with /<command>, ignoring
// case and an @botname suffix. Channel posts do not match.
func CommandMatcher(command string) tgbot.MatchFunc {
	return func(update *models.Update) bool {
		if update == nil || update.Message == nil {
			return false
		}
		return commandName(update.Message.Text) == command
	}
}
