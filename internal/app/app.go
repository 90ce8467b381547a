// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы,
// обработчики, диалоги и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/bot"
	"mlhelper.ru/ml-helper-bot/internal/bot/filters"
	"mlhelper.ru/ml-helper-bot/internal/config"
	"mlhelper.ru/ml-helper-bot/internal/db/postgres"
	"mlhelper.ru/ml-helper-bot/internal/dialog"
	"mlhelper.ru/ml-helper-bot/internal/features/dictionary"
	"mlhelper.ru/ml-helper-bot/internal/features/economy"
	"mlhelper.ru/ml-helper-bot/internal/features/heroes"
	"mlhelper.ru/ml-helper-bot/internal/features/profile"
	"mlhelper.ru/ml-helper-bot/internal/features/quiz"
	"mlhelper.ru/ml-helper-bot/internal/features/shop"
	"mlhelper.ru/ml-helper-bot/internal/features/tournament"
	"mlhelper.ru/ml-helper-bot/internal/jobs"
	"mlhelper.ru/ml-helper-bot/internal/router"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Репозитории ===
	profileRepo := profile.NewRepository(pool)
	economyRepo := economy.NewRepository(pool)
	shopRepo := shop.NewRepository(pool)
	quizRepo := quiz.NewRepository(pool)
	tournamentRepo := tournament.NewRepository(pool)
	dictionaryRepo := dictionary.NewRepository(pool)
	heroesRepo := heroes.NewRepository(pool)

	// === 4. Сервисы ===
	profileService := profile.NewService(profileRepo, cfg)
	economyService := economy.NewService(economyRepo)
	shopService := shop.NewService(shopRepo, economyService)
	quizService := quiz.NewService(quizRepo)
	tournamentService := tournament.NewService(tournamentRepo, profileService, cfg)
	dictionaryService := dictionary.NewService(dictionaryRepo)
	heroesService := heroes.NewService(heroesRepo)

	// === 5. Диалоги ===
	sessions := dialog.NewStore(cfg.SessionTTL)
	engine := dialog.NewEngine(sessions)
	engine.Register(profile.CreationWorkflow(profileService))
	engine.Register(profile.BuildWorkflow(profileService))
	engine.Register(profile.NoteWorkflow(profileService))
	engine.Register(shop.ListingWorkflow(shopService))
	engine.Register(shop.SearchWorkflow(shopService))
	engine.Register(quiz.AuthoringWorkflow(quizService))
	engine.Register(tournament.CreationWorkflow(tournamentService))
	engine.Register(tournament.RegistrationWorkflow(tournamentService))
	engine.Register(dictionary.AuthoringWorkflow(dictionaryService))
	engine.Register(dictionary.SearchWorkflow(dictionaryService))

	// === 6. Обработчики ===
	handlers := router.Handlers{
		Profile:    profile.NewHandler(profileService),
		Economy:    economy.NewHandler(economyService),
		Shop:       shop.NewHandler(shopService),
		Quiz:       quiz.NewHandler(quizService, profileService, sessions),
		Tournament: tournament.NewHandler(tournamentService),
		Dictionary: dictionary.NewHandler(dictionaryService),
		Heroes:     heroes.NewHandler(heroesService),
	}

	// === 7. Роутер и транспорт ===
	r := router.New(cfg, engine, dialog.NewUserLocks(), handlers)
	chatFilter := filters.NewChatFilter(botAPI)
	b := bot.New(botAPI, cfg, r, chatFilter)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(sessions, tournamentService)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Users},
		{2, migration002Shop},
		{3, migration003Quiz},
		{4, migration004Tournaments},
		{5, migration005Dictionary},
		{6, migration006Heroes},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    username VARCHAR(255),
    nickname VARCHAR(255) NOT NULL,
    game_id BIGINT NOT NULL,
    diamonds BIGINT NOT NULL DEFAULT 0 CHECK (diamonds >= 0),
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_user_id ON users(user_id);

CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    delta BIGINT NOT NULL,
    reason VARCHAR(255) NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at DESC);

CREATE TABLE IF NOT EXISTS builds (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    hero_id BIGINT,
    items TEXT NOT NULL,
    description TEXT,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_builds_user_id ON builds(user_id);

CREATE TABLE IF NOT EXISTS notes (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    title VARCHAR(255) NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes(user_id);
`

var migration002Shop = `
CREATE TABLE IF NOT EXISTS shop_items (
    id BIGSERIAL PRIMARY KEY,
    seller_id BIGINT NOT NULL,
    title VARCHAR(255) NOT NULL,
    description TEXT,
    price BIGINT NOT NULL CHECK (price > 0),
    category VARCHAR(255) NOT NULL,
    status VARCHAR(32) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_shop_items_category ON shop_items(category);
CREATE INDEX IF NOT EXISTS idx_shop_items_status ON shop_items(status);

CREATE TABLE IF NOT EXISTS purchases (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    item_id BIGINT NOT NULL REFERENCES shop_items(id),
    created_at TIMESTAMP DEFAULT NOW(),
    UNIQUE (user_id, item_id)
);
CREATE INDEX IF NOT EXISTS idx_purchases_user_id ON purchases(user_id);
`

var migration003Quiz = `
CREATE TABLE IF NOT EXISTS quiz_questions (
    id BIGSERIAL PRIMARY KEY,
    question TEXT NOT NULL,
    options TEXT[] NOT NULL,
    correct_answer TEXT NOT NULL,
    reward BIGINT NOT NULL CHECK (reward > 0),
    created_at TIMESTAMP DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS quiz_answers (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    question_id BIGINT NOT NULL REFERENCES quiz_questions(id),
    answer TEXT NOT NULL,
    is_correct BOOLEAN NOT NULL,
    answered_at TIMESTAMP DEFAULT NOW(),
    UNIQUE (user_id, question_id)
);
CREATE INDEX IF NOT EXISTS idx_quiz_answers_user_id ON quiz_answers(user_id);
`

var migration004Tournaments = `
CREATE TABLE IF NOT EXISTS tournaments (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    description TEXT,
    start_date TIMESTAMP NOT NULL,
    rewards TEXT,
    status VARCHAR(32) NOT NULL DEFAULT 'active',
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tournaments_status ON tournaments(status);

CREATE TABLE IF NOT EXISTS tournament_participants (
    id BIGSERIAL PRIMARY KEY,
    tournament_id BIGINT NOT NULL REFERENCES tournaments(id),
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    team_name VARCHAR(255) NOT NULL,
    team_members BIGINT[] NOT NULL,
    registered_at TIMESTAMP DEFAULT NOW(),
    UNIQUE (tournament_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_participants_tournament ON tournament_participants(tournament_id);
`

var migration005Dictionary = `
CREATE TABLE IF NOT EXISTS terms (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    description TEXT NOT NULL,
    category VARCHAR(255) NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_terms_name_lower ON terms (lower(name));
CREATE INDEX IF NOT EXISTS idx_terms_category ON terms(category);
`

var migration006Heroes = `
CREATE TABLE IF NOT EXISTS heroes (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) UNIQUE NOT NULL,
    role VARCHAR(64) NOT NULL,
    tier VARCHAR(8) NOT NULL,
    description TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_heroes_role ON heroes(role);

INSERT INTO heroes (name, role, tier, description) VALUES
    ('Ланселот', 'Убийца', 'S', 'Мобильный убийца с неуязвимостью во время рывков. Сильнейший выбор для соло-ранга.'),
    ('Фанни', 'Убийца', 'S', 'Полёты на тросах и огромный урон. Требует высокого скилла, но в умелых руках решает игру.'),
    ('Хаябуса', 'Убийца', 'A', 'Ниндзя с тенями: быстро заходит на заднюю линию и уходит без последствий.'),
    ('Тигрил', 'Танк', 'A', 'Классический танк с контролем. Незаменим в драках за объекты.'),
    ('Франко', 'Танк', 'B', 'Крюк решает: один точный хук ломает построение противника.'),
    ('Эстес', 'Поддержка', 'A', 'Сильнейшее массовое лечение в поздней игре.'),
    ('Рафаэль', 'Поддержка', 'B', 'Лечение и замедление. Простой и надёжный выбор для новичка.'),
    ('Лейла', 'Стрелок', 'C', 'Большая дальность, но нет мобильности. Хороша только на ранних рангах.'),
    ('Кларк', 'Стрелок', 'S', 'Пробивает танков процентным уроном. Обязательный бан в высоких рангах.'),
    ('Кагура', 'Маг', 'S', 'Зонтик даёт комбо на все случаи. Высокий порог входа, высокий потолок.'),
    ('Лунокс', 'Маг', 'A', 'Два режима: урон и неуязвимость. Гибкий пик под любой драфт.'),
    ('Чу', 'Боец', 'B', 'Простой бустер с рывками. Стабилен в любой мете.')
ON CONFLICT (name) DO NOTHING;
`
