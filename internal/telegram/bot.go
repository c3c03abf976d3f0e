package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"veckomeny/internal/app"
	"veckomeny/internal/config"
	"veckomeny/internal/grocery"
	"veckomeny/internal/i18n"
	"veckomeny/internal/logger"
	"veckomeny/internal/mealplan"
	"veckomeny/internal/recipe"
)

// Bot wraps the Telegram API around the shared application operations.
type Bot struct {
	api *tgbotapi.BotAPI
	app *app.App
	tr  *i18n.Translator
	cfg *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App, tr *i18n.Translator) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	logger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", zap.String("response", resp.Description))

	return &Bot{
		api: bot,
		app: application,
		tr:  tr,
		cfg: cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		logger.Error("error parsing update", zap.Error(err))
		return
	}

	if update.CallbackQuery != nil {
		if !b.isAllowed(update.CallbackQuery.From.ID) {
			return
		}
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		logger.Warn("unauthorized access attempt",
			zap.Int64("user_id", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName))
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) isAllowed(userID int64) bool {
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)

	// A bare URL means "import this recipe".
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleImport(msg)
		return
	}

	cmd, args, _ := strings.Cut(text, " ")
	args = strings.TrimSpace(args)

	switch cmd {
	case "/plan":
		b.handlePlan(msg.Chat.ID)
	case "/set":
		b.handleSetSlot(msg.Chat.ID, args)
	case "/unset":
		b.handleClearSlot(msg.Chat.ID, args)
	case "/servings":
		b.handleServings(msg.Chat.ID, args)
	case "/list":
		b.handleList(msg.Chat.ID)
	case "/add":
		b.handleAddItem(msg.Chat.ID, args)
	case "/clearchecked":
		b.handleClearChecked(msg.Chat.ID)
	case "/clear":
		b.handleClearList(msg.Chat.ID)
	case "/recipes":
		b.handleRecipes(msg.Chat.ID)
	case "/athome":
		b.handleAtHome(msg.Chat.ID, args)
	case "/status":
		b.handleStatus(msg)
	default:
		b.reply(msg.Chat.ID, helpText)
	}
}

const helpText = `*Commands*
• Send a recipe URL to import it
• /plan — this week's meals
• /set <day:meal> <recipe-id|custom> — plan a meal
• /unset <day:meal> — clear a meal
• /servings <day:meal> <n> — scale a meal
• /list — shopping list
• /add <item> — add a custom item
• /clear — clear the list
• /clearchecked — uncheck everything
• /recipes — the recipe catalog
• /athome [add|remove] <item> — manage staples`

func (b *Bot) handleImport(msg *tgbotapi.Message) {
	sent, err := b.api.Send(markdownMessage(msg.Chat.ID, "⏳ *Importing recipe...*"))
	if err != nil {
		logger.Error("failed to send initial reply", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	rec, created, err := b.app.ImportRecipe(ctx, msg.Text)
	var finalText string
	if err != nil {
		logger.Error("error importing recipe", zap.String("url", msg.Text), zap.Error(err))
		finalText = fmt.Sprintf("❌ %s", b.tr.T("import_failed"))
	} else if !created {
		finalText = fmt.Sprintf("ℹ️ *%s* (`%s`)", escapeMarkdown(rec.Title), rec.ID)
	} else {
		finalText = fmt.Sprintf("✅ *%s*\n\n*%s* (`%s`)", b.tr.T("recipe_saved"), escapeMarkdown(rec.Title), rec.ID)
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sent.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handlePlan(chatID int64) {
	ctx := context.Background()
	plan, err := b.app.CurrentPlan(ctx)
	if err != nil {
		b.replyError(chatID, err)
		return
	}

	recipes := map[string]recipe.Recipe{}
	if list, err := b.app.Recipes(ctx); err == nil {
		for _, r := range list {
			recipes[r.ID] = r
		}
	}

	b.reply(chatID, b.formatPlan(plan, recipes))
}

func (b *Bot) formatPlan(plan *mealplan.Plan, recipes map[string]recipe.Recipe) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *%s* (%s)\n\n", b.tr.T("weekly_plan"), plan.WeekStart.Format("2006-01-02")))

	slots := plan.OrderedSlots()
	if len(slots) == 0 {
		sb.WriteString(fmt.Sprintf("_%s_", b.tr.T("empty_plan")))
		return sb.String()
	}

	for _, slot := range slots {
		id := plan.Slots[slot]
		title := b.tr.T("custom_meal")
		if id != mealplan.CustomMarker {
			if rec, ok := recipes[id]; ok {
				title = rec.Title
			} else {
				title = id
			}
		}
		sb.WriteString(fmt.Sprintf("*%s*: %s\n", slot, escapeMarkdown(title)))
	}
	return sb.String()
}

func (b *Bot) handleSetSlot(chatID int64, args string) {
	slot, recipeID, ok := strings.Cut(args, " ")
	if !ok {
		b.reply(chatID, "Usage: /set <day:meal> <recipe-id|custom>")
		return
	}
	if err := b.app.SetSlot(context.Background(), slot, strings.TrimSpace(recipeID)); err != nil {
		b.replyError(chatID, err)
		return
	}
	b.handlePlan(chatID)
}

func (b *Bot) handleClearSlot(chatID int64, args string) {
	if args == "" {
		b.reply(chatID, "Usage: /unset <day:meal>")
		return
	}
	if err := b.app.ClearSlot(context.Background(), args); err != nil {
		b.replyError(chatID, err)
		return
	}
	b.handlePlan(chatID)
}

func (b *Bot) handleServings(chatID int64, args string) {
	slot, countRaw, ok := strings.Cut(args, " ")
	count, err := strconv.Atoi(strings.TrimSpace(countRaw))
	if !ok || err != nil {
		b.reply(chatID, "Usage: /servings <day:meal> <n>")
		return
	}
	if err := b.app.SetServings(slot, count); err != nil {
		b.replyError(chatID, err)
		return
	}
	b.sendList(chatID)
}

func (b *Bot) handleList(chatID int64) {
	b.sendList(chatID)
}

// sendList renders the shopping list with one toggle button per item. The
// callback data carries the item's position because Telegram caps callback
// data at 64 bytes, too little for arbitrary item names.
func (b *Bot) sendList(chatID int64) {
	list := b.app.ShoppingList(context.Background())

	msg := tgbotapi.NewMessage(chatID, b.formatList(list))
	msg.ParseMode = "Markdown"
	if keyboard := listKeyboard(list); keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	b.api.Send(msg)
}

func (b *Bot) formatList(list grocery.List) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *%s*\n\n", b.tr.T("shopping_list")))

	if len(list.Items) == 0 {
		sb.WriteString(fmt.Sprintf("_%s_", b.tr.T("empty_list")))
		return sb.String()
	}

	for _, item := range list.Items {
		box := "◻️"
		if item.Checked {
			box = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %s", box, escapeMarkdown(item.Name)))
		if len(item.RecipeSources) > 0 {
			sb.WriteString(fmt.Sprintf(" _(%s)_", escapeMarkdown(strings.Join(item.RecipeSources, ", "))))
		}
		sb.WriteString("\n")
	}

	c := list.Counters
	sb.WriteString(fmt.Sprintf("\n%d %s", c.ToBuy, b.tr.T("items_to_buy")))
	if c.CheckedToBuy > 0 {
		sb.WriteString(fmt.Sprintf(", %d %s", c.CheckedToBuy, b.tr.T("checked")))
	}
	if c.HiddenAtHome > 0 {
		sb.WriteString(fmt.Sprintf(", %d %s", c.HiddenAtHome, b.tr.T("at_home")))
	}
	return sb.String()
}

// listKeyboard builds toggle buttons in rows of two.
func listKeyboard(list grocery.List) *tgbotapi.InlineKeyboardMarkup {
	if len(list.Items) == 0 {
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, item := range list.Items {
		label := item.Name
		if item.Checked {
			label = "✅ " + label
		}
		if len(label) > 24 {
			label = label[:24]
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("toggle|%d", i)))
		if len(row) == 2 || i == len(list.Items)-1 {
			rows = append(rows, row)
			row = nil
		}
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	action, arg, ok := strings.Cut(query.Data, "|")
	if !ok || action != "toggle" {
		return
	}
	index, err := strconv.Atoi(arg)
	if err != nil {
		return
	}

	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	list := b.app.ShoppingList(context.Background())
	if index < 0 || index >= len(list.Items) {
		return
	}
	if err := b.app.ToggleItem(list.Items[index].Name); err != nil {
		logger.Error("failed to toggle item", zap.String("item", list.Items[index].Name), zap.Error(err))
		return
	}

	list = b.app.ShoppingList(context.Background())
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, b.formatList(list))
	edit.ParseMode = "Markdown"
	edit.ReplyMarkup = listKeyboard(list)
	b.api.Send(edit)
}

func (b *Bot) handleAddItem(chatID int64, args string) {
	if strings.TrimSpace(args) == "" {
		b.reply(chatID, "Usage: /add <item>")
		return
	}
	if err := b.app.AddCustomItem(args); err != nil {
		b.replyError(chatID, err)
		return
	}
	b.sendList(chatID)
}

func (b *Bot) handleClearChecked(chatID int64) {
	if err := b.app.ClearChecked(); err != nil {
		b.replyError(chatID, err)
		return
	}
	b.reply(chatID, fmt.Sprintf("🧹 %s", b.tr.T("cleared_checked")))
}

func (b *Bot) handleClearList(chatID int64) {
	if err := b.app.ClearList(); err != nil {
		b.replyError(chatID, err)
		return
	}
	b.reply(chatID, fmt.Sprintf("🧹 %s", b.tr.T("cleared_all")))
}

func (b *Bot) handleRecipes(chatID int64) {
	recipes, err := b.app.Recipes(context.Background())
	if err != nil {
		b.replyError(chatID, err)
		return
	}

	var sb strings.Builder
	sb.WriteString("📖 *Recipes*\n\n")
	if len(recipes) == 0 {
		sb.WriteString("_Empty catalog. Send a recipe URL to get started._")
	}
	for _, rec := range recipes {
		sb.WriteString(fmt.Sprintf("• %s (`%s`)\n", escapeMarkdown(rec.Title), rec.ID))
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleAtHome(chatID int64, args string) {
	ctx := context.Background()
	action, item, _ := strings.Cut(args, " ")

	switch action {
	case "add":
		if err := b.app.AddAtHome(ctx, item); err != nil {
			b.replyError(chatID, err)
			return
		}
	case "remove":
		if err := b.app.RemoveAtHome(ctx, item); err != nil {
			b.replyError(chatID, err)
			return
		}
	case "":
	default:
		b.reply(chatID, "Usage: /athome [add|remove] <item>")
		return
	}

	items := b.app.AtHomeItems(ctx)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏠 *%s*\n\n", b.tr.T("at_home")))
	if len(items) == 0 {
		sb.WriteString("_Nothing yet._")
	}
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("• %s\n", escapeMarkdown(it)))
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleStatus(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	status, err := b.app.Status(context.Background())
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 *Status*\n\n")
	sb.WriteString(fmt.Sprintf("• Recipes: %d\n", status.RecipeCount))
	sb.WriteString(fmt.Sprintf("• Week of %s: %d meals planned\n", status.WeekStart.Format("2006-01-02"), status.PlannedMeals))
	sb.WriteString(fmt.Sprintf("• List: %d items, %d to buy\n", status.ListTotal, status.ListToBuy))
	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", status.Health.AllocMB, status.Health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", status.Health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", status.Health.Uptime))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", status.Health.DataDiskSize))
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) reply(chatID int64, text string) {
	b.api.Send(markdownMessage(chatID, text))
}

func (b *Bot) replyError(chatID int64, err error) {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	b.reply(chatID, fmt.Sprintf("❌ *Error:*\n```\n%v\n```", safeErr))
}

func markdownMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	return msg
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer("*", "\\*", "_", "\\_", "`", "'", "[", "(", "]", ")")
	return replacer.Replace(s)
}
