package sys

// Log and user-facing messages shared by the core packages.
const (
	MsgConfigFailedToLoad  = "Failed to load config: %v"
	MsgConfigMissingToken  = "DISCORD_TOKEN is not set in .env file"
	MsgDatabaseInitSuccess = "Database initialized successfully"
	MsgDatabaseTableError  = "Failed to create table: %w"
	MsgDatabasePragmaError = "Failed to set pragma %s: %w"
	MsgDatabaseMigrateFail = "failed to migrate database: %w"
	MsgDaemonStarting      = "Starting..."
	MsgBotStarting         = "Starting %s..."
	MsgBotReady            = "%s is ready! (ID: %s) (PID: %d) (Took: %dms)"
	MsgBotShutdown         = "Shutting down %s..."
	MsgBotKillingOld       = "Killing running instance... (PID: %d)"
	MsgBotKillFail         = "Failed to kill old instance: %v"
	MsgBotOldTerminated    = "Old instance terminated."
	MsgBotPIDWriteFail     = "Failed to write PID file: %v"
	MsgBotRegisterFail     = "Command registration failed: %v"
	MsgGenericError        = "%v"

	MsgLoaderSyncCommands       = "Syncing %s commands..."
	MsgLoaderSyncSkipped        = "Commands unchanged, skipping sync."
	MsgLoaderTransition         = "[TRANSITION] Switching from %s to %s mode."
	MsgLoaderCleanup            = "[CLEANUP] Removing commands from previous dev guild: %s"
	MsgLoaderDevStarting        = "[DEV] Registering commands to guild: %s"
	MsgLoaderDevRegistered      = "[DEV] Registered: %s"
	MsgLoaderDevFail            = "[DEV] Registration failed: %v"
	MsgLoaderProdStarting       = "[PROD] Registering commands globally..."
	MsgLoaderProdRegistered     = "[PROD] Registered: %s"
	MsgLoaderProdFail           = "[PROD] Global registration failed: %w"
	MsgLoaderPanicRecovered     = "Panic recovered in handler: %v"
	MsgLoaderUnknownComponent   = "No component handler for %q"
	MsgLoaderUnknownModal       = "No modal handler for %q"
	MsgLoaderDaemonStartFailure = "Daemon failed to start: %v"

	// Shared interaction replies
	MsgNoPermission   = "You do not have permission to do that."
	MsgServerOnly     = "This command can only be used in a server."
	MsgSomethingBroke = "Something went wrong. Please try again later."
)

// Daily question
const (
	MsgQOTDNotReady         = "The daily question system is still starting up. Try again in a moment."
	MsgQOTDPoolEmpty        = "The question pool is empty. Add one with `/qotd new`."
	MsgQOTDNotFound         = "There is no question at position **%d**."
	MsgQOTDLatestGone       = "The latest daily question has since been deleted. Pick one with `position`."
	MsgQOTDNoSelection      = "No question has been posted yet."
	MsgQOTDInvalidText      = "Questions must be between 1 and %d characters."
	MsgQOTDNoChannel        = "No daily question channel is set. Use `/qotd setup` first."
	MsgQOTDNoReviewChannel  = "Suggestions are not being accepted here yet."
	MsgQOTDDeliveryFailed   = "I couldn't post in <#%s>. Check my permissions there."
	MsgQOTDAlreadyResolved  = "This suggestion was already handled."
	MsgQOTDPosted           = "Posted question **#%d** in <#%s>."
	MsgQOTDRepeated         = "Re-sent question **#%d** in <#%s>."
	MsgQOTDCreated          = "Added question **#%d**:\n> %s"
	MsgQOTDModified         = "Updated question **#%d**:\n> %s"
	MsgQOTDDeleted          = "Deleted question **#%d**:\n> %s\nThe remaining questions were renumbered."
	MsgQOTDListHeader       = "## Question pool (%d)\n"
	MsgQOTDListLine         = "`#%d` %s%s %s"
	MsgQOTDListUsed         = "~~used~~ "
	MsgQOTDListFooter       = "-# Page %d of %d"
	MsgQOTDListEmpty        = "The question pool is empty."
	MsgQOTDEnabled          = "Daily questions are now **enabled** in <#%s>."
	MsgQOTDEnabledNoChannel = "Daily questions are now **enabled**, but no channel is set. Use `/qotd setup`."
	MsgQOTDDisabled         = "Daily questions are now **disabled**."
	MsgQOTDReset            = "Marked **%d** questions as unused."
	MsgQOTDSetup            = "Daily questions will be posted in <#%s>."
	MsgQOTDSetupReview      = "Daily questions will be posted in <#%s>; suggestions go to <#%s>."
	MsgQOTDHistory          = "## %s\n**#%d** %s\n-# Selected <t:%d:f>"
	MsgQOTDHistoryNone      = "No question was selected on %s."
	MsgQOTDHistoryBadDate   = "I couldn't understand that date. Try `yesterday`, `last monday` or `2024-05-01`."
	MsgQOTDHistoryDeleted   = "The question selected on %s has since been deleted."
	MsgQOTDRefreshed        = "Reloaded settings for **%d** servers."
	MsgQOTDPending          = "## Pending suggestions (%d)\n"
	MsgQOTDPendingLine      = "- %s by <@%s> %s"
	MsgQOTDPendingLink      = "([review](https://discord.com/channels/%s/%s/%s))"
	MsgQOTDPendingEmpty     = "There are no pending suggestions."

	MsgSuggestTitle       = "Suggest a question"
	MsgSuggestLabel       = "Your question"
	MsgSuggestPlaceholder = "What would you ask everyone tomorrow?"
	MsgSuggestSent        = "Thanks! Your suggestion was sent to the moderators."

	MsgVoteRecorded = "Vote updated."
	MsgVoteGone     = "This question has been removed from the pool."

	MsgQOTDLogCommandFail = "qotd %s failed: %v"
	MsgQOTDLogVoteFail    = "Vote on question %d by %s failed: %v"
	MsgQOTDLogModFail     = "%s of suggestion message %s failed: %v"
	MsgQOTDLogSuggestFail = "Suggestion from %s in guild %s failed: %v"
)

// Status rotator
const (
	MsgStatusNextQuestion = "Next question %s"
	MsgStatusPoolSize     = "%d questions in the pool"
	MsgStatusPending      = "%d suggestions to review"
	MsgStatusUptime       = "Up %dh %dm"
	MsgStatusRotated      = "Status: %s (next in %v)"
	MsgStatusUpdateFail   = "Failed to update presence: %v"
)
