package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler bundles everything needed to register one handler: its
// type, match pattern, the handler itself, and per-handler middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns the full handler map, keyed by
// a human-readable name used only for logging.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	command := func(pattern string, h tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
		return RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     h,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  mw,
		}
	}

	handlers["/start"] = command("start", NewStartHandler(deps))
	handlers["/active"] = command("active", NewActiveHandler(deps))
	handlers["/roles"] = command("roles", NewRolesHandler(deps))
	handlers["/myroles"] = command("myroles", NewMyRolesHandler(deps))
	handlers["/free"] = command("free", NewFreeHandler(deps))
	handlers["/new"] = command("new", NewClaimHandler(deps), RequireMembership(deps))

	adminOnly := []tgbot.Middleware{AdminOnly(deps)}
	handlers["/ban"] = command("ban", NewBanHandler(deps), adminOnly...)
	handlers["/unban"] = command("unban", NewUnbanHandler(deps), adminOnly...)
	handlers["/promote"] = command("promote", NewPromoteHandler(deps), adminOnly...)
	handlers["/regionstats"] = command("regionstats", NewRegionStatsHandler(deps), adminOnly...)
	handlers["/publish_board"] = command("publish_board", NewPublishBoardHandler(deps), adminOnly...)

	// Claim decisions arrive as callback queries; admin checks happen inside
	// the handler because the sender lives on the callback, not a message.
	handlers["claim_decision"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     ClaimCallbackPrefix,
		Handler:     NewClaimDecisionHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}
