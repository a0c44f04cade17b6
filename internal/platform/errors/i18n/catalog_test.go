package i18n

import "testing"

// useFreshRegistry isolates tests that register catalogs.
func useFreshRegistry(t *testing.T) {
	t.Helper()
	prev := catalogs
	catalogs = newRegistry(enUSCatalog)
	t.Cleanup(func() { catalogs = prev })
}

func TestGetCatalogFallback(t *testing.T) {
	useFreshRegistry(t)

	base := GetCatalog("en-US")
	if base == nil || base.Locale() != BaseLocale {
		t.Fatalf("expected base catalog, got %+v", base)
	}
	for _, locale := range []string{"", "   ", "missing-locale", "fr", "not a tag!!"} {
		if got := GetCatalog(locale); got != base {
			t.Fatalf("GetCatalog(%q) = %s, want %s", locale, got.Locale(), BaseLocale)
		}
	}
}

func TestGetCatalogMatchesLanguageTags(t *testing.T) {
	useFreshRegistry(t)
	ptBR := NewCatalog("pt-BR", map[Code]string{CodeNotationEmpty: "Informe uma expressão."})
	if err := RegisterCatalog("pt-BR", ptBR); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		locale string
		want   string
	}{
		{locale: "pt-BR", want: "pt-BR"},
		{locale: "pt-br", want: "pt-BR"},
		{locale: "PT-BR", want: "pt-BR"},
		{locale: "pt", want: "pt-BR"},
		{locale: "pt-BR,en;q=0.8", want: "pt-BR"},
		{locale: "fr-FR, pt;q=0.5", want: "pt-BR"},
		{locale: "en-US,pt-BR;q=0.5", want: "en-US"},
		{locale: "en", want: "en-US"},
		{locale: "de-DE", want: "en-US"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			if got := GetCatalog(tt.locale).Locale(); got != tt.want {
				t.Fatalf("GetCatalog(%q) = %s, want %s", tt.locale, got, tt.want)
			}
		})
	}
}

func TestRegisterCatalog(t *testing.T) {
	useFreshRegistry(t)

	first := NewCatalog("pt-br", map[Code]string{"code": "um"})
	if err := RegisterCatalog("pt-br", first); err != nil {
		t.Fatalf("register: %v", err)
	}
	if first.Locale() != "pt-BR" {
		t.Fatalf("expected canonical locale pt-BR, got %s", first.Locale())
	}

	second := NewCatalog("pt-BR", map[Code]string{"code": "dois"})
	if err := RegisterCatalog("pt-BR", second); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if got := GetCatalog("pt-BR"); got != second {
		t.Fatal("expected replacement catalog")
	}

	if err := RegisterCatalog("not a tag!!", NewCatalog("x", nil)); err == nil {
		t.Fatal("expected invalid tag error")
	}
	if err := RegisterCatalog("es", nil); err == nil {
		t.Fatal("expected nil catalog error")
	}
}

func TestBaseCatalogMessages(t *testing.T) {
	cat := GetCatalog(BaseLocale)
	got := cat.Format(CodeNotationMalformed, map[string]string{"Expression": "5+"})
	if got != "5+ is missing a number or an operator." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}
