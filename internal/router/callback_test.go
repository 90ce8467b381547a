package router

import "testing"

func TestParseCallbackPlain(t *testing.T) {
	cases := map[string]CallbackKind{
		"menu":              CbMenu,
		"cancel":            CbCancel,
		"profile":           CbProfile,
		"create_profile":    CbCreateProfile,
		"shop":              CbShop,
		"quiz":              CbQuiz,
		"tournaments":       CbTournaments,
		"create_tournament": CbCreateTournament,
		"dictionary":        CbDictionary,
		"heroes":            CbHeroes,
		"tier_list":         CbTierList,
		"moderate":          CbModerate,
	}
	for token, want := range cases {
		cb, err := ParseCallback(token)
		if err != nil {
			t.Errorf("ParseCallback(%q): %v", token, err)
			continue
		}
		if cb.Kind != want {
			t.Errorf("ParseCallback(%q).Kind = %v, ожидалось %v", token, cb.Kind, want)
		}
	}
}

func TestParseCallbackWithID(t *testing.T) {
	cb, err := ParseCallback("buy:42")
	if err != nil {
		t.Fatalf("ParseCallback: %v", err)
	}
	if cb.Kind != CbBuy || cb.ID != 42 {
		t.Fatalf("buy:42 разобран как %+v", cb)
	}

	// create_build бывает и без героя, и с героем
	cb, err = ParseCallback("create_build")
	if err != nil || cb.Kind != CbCreateBuild || cb.ID != 0 {
		t.Fatalf("create_build разобран как %+v, %v", cb, err)
	}
	cb, err = ParseCallback("create_build:7")
	if err != nil || cb.Kind != CbCreateBuild || cb.ID != 7 {
		t.Fatalf("create_build:7 разобран как %+v, %v", cb, err)
	}
}

func TestParseCallbackAnswer(t *testing.T) {
	cb, err := ParseCallback("answer:15:2")
	if err != nil {
		t.Fatalf("ParseCallback: %v", err)
	}
	if cb.Kind != CbAnswer || cb.ID != 15 || cb.Index != 2 {
		t.Fatalf("answer:15:2 разобран как %+v", cb)
	}
}

func TestParseCallbackArg(t *testing.T) {
	cb, err := ParseCallback("shop_category:аккаунты")
	if err != nil {
		t.Fatalf("ParseCallback: %v", err)
	}
	if cb.Kind != CbShopCategory || cb.Arg != "аккаунты" {
		t.Fatalf("категория разобрана как %+v", cb)
	}

	// категория с двоеточием внутри не теряет хвост
	cb, err = ParseCallback("term_category:роли: лес")
	if err != nil || cb.Arg != "роли: лес" {
		t.Fatalf("аргумент с двоеточием: %+v, %v", cb, err)
	}
}

func TestParseCallbackRejectsGarbage(t *testing.T) {
	for _, token := range []string{
		"",
		"nonexistent",
		"buy:",
		"buy:abc",
		"answer:1",
		"answer:x:y",
		"shop_category:",
	} {
		if _, err := ParseCallback(token); err == nil {
			t.Errorf("токен %q не должен разбираться", token)
		}
	}
}
