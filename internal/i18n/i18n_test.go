package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "ScoreExcellent")
	if got != "Excellent work!" {
		t.Errorf("T(ScoreExcellent) = %q, want 'Excellent work!'", got)
	}

	got = T(ctx, "HistoryCleared")
	if got != "History cleared!" {
		t.Errorf("T(HistoryCleared) = %q, want 'History cleared!'", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	got := T(ctx, "ScoreExcellent")
	if got != "Отличная работа!" {
		t.Errorf("T(ScoreExcellent) = %q, want 'Отличная работа!'", got)
	}

	got = T(ctx, "HistoryCleared")
	if got != "История очищена!" {
		t.Errorf("T(HistoryCleared) = %q, want 'История очищена!'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got1 := Tp(ctx, "QuestionsGenerated", 1)
	if got1 != "Generated 1 question" {
		t.Errorf("Tp(QuestionsGenerated, 1) = %q, want 'Generated 1 question'", got1)
	}

	got5 := Tp(ctx, "QuestionsGenerated", 5)
	if got5 != "Generated 5 questions" {
		t.Errorf("Tp(QuestionsGenerated, 5) = %q, want 'Generated 5 questions'", got5)
	}
}

func TestRussianPluralForms(t *testing.T) {
	ctx := initLang(t, "ru")

	cases := map[int]string{
		1:  "Сгенерирован 1 вопрос",
		3:  "Сгенерировано 3 вопроса",
		5:  "Сгенерировано 5 вопросов",
		21: "Сгенерирован 21 вопрос",
	}
	for count, want := range cases {
		if got := Tp(ctx, "QuestionsGenerated", count); got != want {
			t.Errorf("Tp(QuestionsGenerated, %d) = %q, want %q", count, got, want)
		}
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "ScoreSummary", map[string]any{
		"Correct":    4,
		"Total":      5,
		"Percentage": "80.0",
	})
	if got != "Score: 4/5 (80.0%)" {
		t.Errorf("Td(ScoreSummary) = %q, want 'Score: 4/5 (80.0%%)'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestMissingLocalizerFallsBack(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init(en): %v", err)
	}

	got := T(context.Background(), "ScoreGood")
	if got != "Good job!" {
		t.Errorf("T without localizer = %q, want 'Good job!'", got)
	}
}

func TestMiddleware(t *testing.T) {
	if err := Init("ru"); err != nil {
		t.Fatalf("Init(ru): %v", err)
	}

	var inner string
	h := Middleware("ru")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = T(r.Context(), "ScoreKeepStudying")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if inner != "Продолжайте учиться!" {
		t.Errorf("handler saw %q, want 'Продолжайте учиться!'", inner)
	}
	if got := rec.Header().Get("Content-Language"); got != "ru" {
		t.Errorf("Content-Language = %q, want 'ru'", got)
	}
}
