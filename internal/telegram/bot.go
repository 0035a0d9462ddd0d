package telegram

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"totsuki/internal/config"
	"totsuki/internal/pantry"
	"totsuki/internal/planner"
	"totsuki/internal/receipt"
	"totsuki/internal/recipe"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API and the grocery services.
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.Config
	pantryRepo  *pantry.Repository
	recipeRepo  *recipe.Repository
	receiptRepo *receipt.Repository
}

// NewBot initializes the Telegram Bot and sets the webhook.
func NewBot(cfg *config.Config, pantryRepo *pantry.Repository, recipeRepo *recipe.Repository, receiptRepo *receipt.Repository) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:         bot,
		cfg:         cfg,
		pantryRepo:  pantryRepo,
		recipeRepo:  recipeRepo,
		receiptRepo: receiptRepo,
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
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

// DefaultUserID mirrors the API's single household owner.
const defaultUserID int64 = 1

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	command, args, _ := strings.Cut(text, " ")

	switch command {
	case "/plan":
		b.handlePlan(msg.Chat.ID, args)
	case "/pantry":
		b.handlePantry(msg.Chat.ID)
	case "/spend":
		b.handleSpend(msg.Chat.ID)
	default:
		b.sendMarkdown(msg.Chat.ID, helpText)
	}
}

const helpText = "🍳 *Totsuki Grocery Bot*\n\n" +
	"• `/plan [cuisines]` — generate a weekly meal plan\n" +
	"• `/pantry` — list your pantry\n" +
	"• `/spend` — spending summary"

func (b *Bot) handlePlan(chatID int64, args string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	recipes, err := b.recipeRepo.All(ctx)
	if err != nil {
		log.Printf("Error loading recipes: %v", err)
		b.sendMarkdown(chatID, "❌ Could not load the recipe catalog.")
		return
	}

	req := planner.PlanRequest{}
	if args != "" {
		req.PreferredCuisines = strings.Fields(strings.ToLower(args))
	}
	if err := req.Validate(); err != nil {
		b.sendMarkdown(chatID, "❌ "+err.Error())
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	plan, err := planner.GeneratePlan(recipes, req, rng)
	if err != nil {
		log.Printf("Error generating plan: %v", err)
		b.sendMarkdown(chatID, "❌ No recipes available yet. Seed the catalog first.")
		return
	}

	planText, shoppingText := formatPlanParts(plan)
	b.sendMarkdown(chatID, planText)
	b.sendMarkdown(chatID, shoppingText)
}

func (b *Bot) handlePantry(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	items, total, err := b.pantryRepo.List(ctx, defaultUserID, nil, 0, 50)
	if err != nil {
		log.Printf("Error listing pantry: %v", err)
		b.sendMarkdown(chatID, "❌ Could not load the pantry.")
		return
	}

	if total == 0 {
		b.sendMarkdown(chatID, "🧺 Your pantry is empty.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧺 *Pantry* (%d items)\n\n", total))
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("• %s — %.1f %s (%s)\n", item.Name, item.Quantity, item.Unit, item.Category))
	}
	b.sendMarkdown(chatID, sb.String())
}

func (b *Bot) handleSpend(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	breakdown, err := b.receiptRepo.SpendBreakdown(ctx, defaultUserID)
	if err != nil {
		log.Printf("Error computing spend breakdown: %v", err)
		b.sendMarkdown(chatID, "❌ Could not compute the spending summary.")
		return
	}

	var sb strings.Builder
	sb.WriteString("💸 *Spending Summary*\n\n")
	sb.WriteString(fmt.Sprintf("Total: $%.2f across %d receipts (%d items)\n", breakdown.TotalSpent, breakdown.ReceiptCount, breakdown.ItemCount))

	if len(breakdown.ByCategory) > 0 {
		sb.WriteString("\n*By category*\n")
		for _, c := range breakdown.ByCategory {
			sb.WriteString(fmt.Sprintf("• %s: $%.2f (%.1f%%)\n", c.Category, c.Total, c.Percentage))
		}
	}
	if len(breakdown.TopItems) > 0 {
		sb.WriteString("\n*Top items*\n")
		for i, item := range breakdown.TopItems {
			if i == 5 {
				break
			}
			sb.WriteString(fmt.Sprintf("• %s: $%.2f\n", item.Name, item.TotalSpent))
		}
	}
	b.sendMarkdown(chatID, sb.String())
}

func formatPlanParts(plan *planner.PlanResponse) (string, string) {
	var pb strings.Builder
	pb.WriteString("📅 *Weekly Meal Plan*\n\n")
	for _, day := range plan.Days {
		meal := day.Meals[0]
		pb.WriteString(fmt.Sprintf("*%s*: %s (%d min, $%.2f)\n", day.Weekday, meal.Title, meal.TimeMinutes, day.TotalCost))
	}
	pb.WriteString(fmt.Sprintf("\n_Week total: $%.2f, %d recipes_", plan.Summary.TotalCost, plan.Summary.TotalRecipes))

	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")
	for _, item := range plan.ShoppingList {
		sb.WriteString(fmt.Sprintf("• %s — %.2f %s\n", item.Name, item.Quantity, item.Unit))
	}

	return pb.String(), sb.String()
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}
