package agent

import "testing"

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Language
	}{
		{"devanagari script", "नमस्ते, कार्ड के बारे में बताओ", LanguageHindi},
		{"single devanagari char wins", "hello क", LanguageHindi},
		{"romanized hindi", "mujhe cashback chahiye", LanguageHinglish},
		{"stray hinglish word biases hinglish", "what is the fee structure ji", LanguageHinglish},
		{"plain english", "what is the annual fee", LanguageEnglish},
		{"tamil script unsupported", "வணக்கம்", LanguageOther},
		{"empty string", "", LanguageEnglish},
		{"emoji only is unsupported", "👍", LanguageOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestLanguageSupported(t *testing.T) {
	for _, l := range []Language{LanguageHindi, LanguageHinglish, LanguageEnglish} {
		if !l.Supported() {
			t.Errorf("%s should be supported", l)
		}
	}
	if LanguageOther.Supported() {
		t.Error("OTHER should not be supported")
	}
}
