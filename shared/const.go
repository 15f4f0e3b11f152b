package shared

// Command names as received from the platform (without the leading slash).
const (
	CmdStart       = "start"
	CmdHelp        = "help"
	CmdFilter      = "filter"
	CmdFilters     = "filters"
	CmdQuote       = "quote"
	CmdKang        = "kang"
	CmdStickerpack = "stickerpack"
	CmdMmf         = "mmf"
	CmdLogs        = "logs"
	CmdGetChatID   = "getchatid"
)

// CallbackStickerPrefix tags sticker-pack button payloads: "sticker_<ref>".
const CallbackStickerPrefix = "sticker_"

// User-facing reply texts.
const (
	MsgWelcome = "🎉 Welcome to GroupPal! I'm your group manager and meme buddy. Use /help for commands."

	MsgHelp = `🛡️ GroupPal Commands:
⚙️ Moderation:
/filter <word> <reply> - Add a word filter with auto-reply
/filters - List or remove filters
/quote - Quote a replied message

🎭 Fun:
/kang - Add a sticker to your collection (reply to sticker)
/stickerpack - Show your sticker collection
/mmf <text> - Create a meme from replied image/sticker/GIF

🧑‍💻 Admin:
/logs - View recent moderation logs (admin only)
/getchatid - Get the chat ID for logging`

	MsgUsageFilter       = "Usage: /filter <word> <reply>"
	MsgUsageFilterRemove = "Usage: /filters remove <word>"
	MsgNoFilters         = "No filters set."
	MsgFiltersHeader     = "📋 Filters:"

	MsgUsageQuote = "Reply to a message to quote it."

	MsgUsageKang      = "Reply to a sticker to kang it."
	MsgKangDone       = "🐸 Kangged! Added to your sticker collection."
	MsgEmptyPack      = "Your sticker collection is empty."
	MsgPackHeader     = "🎨 Your sticker collection:"
	MsgUsageMmf       = "Usage: /mmf <text> (reply to image/sticker/GIF)"
	MsgMmfWrongMedia  = "Reply to an image, sticker, or GIF."
	MsgMemeFailed     = "😵 Couldn't create the meme. Try a different image."
	MsgThrottled      = "🚫 Slow down! You're sending messages too fast."
	MsgAdminOnly      = "🔐 Admin only command."
	MsgNoLogs         = "No log entries yet."
	MsgLogsHeader     = "📋 Recent logs:"
	MsgGenericFailure = "⚠️ Something went wrong. Please try again later."
)

// TimestampFormat is used for quoted messages and log listings.
const TimestampFormat = "2006-01-02 15:04:05"
