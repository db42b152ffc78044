package service

import "github.com/godilite/procurement-server/internal/evaluation"

var staticOptions = []evaluation.Option{
	{ID: "o1", Label: "Çok iyi"},
	{ID: "o2", Label: "İyi"},
	{ID: "o3", Label: "Orta"},
	{ID: "o4", Label: "Zayıf"},
}

func staticQuestion(id string, section evaluation.Section, typ evaluation.QuestionType, text string) evaluation.Question {
	q := evaluation.Question{ID: id, Text: text, Type: typ, Section: section, Active: true}
	if typ == evaluation.QuestionDropdown {
		q.Options = staticOptions
	}
	return q
}

// staticScoringTypes is served when the scoring_types table is empty.
var staticScoringTypes = []ScoringTypeInfo{
	{Code: "danismanlik", Name: "Danışmanlık"},
	{Code: "hizmet", Name: "Hizmet"},
	{Code: "malzeme", Name: "Malzeme"},
}

// staticBanks are the built-in question sets used when the database bank is
// unavailable. Their question ids are not durable.
var staticBanks = map[string][]evaluation.Question{
	"malzeme": {
		staticQuestion("s-malzeme-a1", evaluation.SectionA, evaluation.QuestionRating, "Ürün kalitesi teknik şartnameye uygun mu?"),
		staticQuestion("s-malzeme-a2", evaluation.SectionA, evaluation.QuestionDropdown, "Ambalaj ve etiketleme"),
		staticQuestion("s-malzeme-b1", evaluation.SectionB, evaluation.QuestionRating, "Teslimat süresine uyum"),
		staticQuestion("s-malzeme-b2", evaluation.SectionB, evaluation.QuestionRating, "Sevk irsaliyesi ve belgelerin doğruluğu"),
		staticQuestion("s-malzeme-c1", evaluation.SectionC, evaluation.QuestionDropdown, "Satış sonrası destek"),
		staticQuestion("s-malzeme-c2", evaluation.SectionC, evaluation.QuestionText, "Ek görüşler"),
	},
	"hizmet": {
		staticQuestion("s-hizmet-a1", evaluation.SectionA, evaluation.QuestionRating, "Hizmetin sözleşme kapsamına uygunluğu"),
		staticQuestion("s-hizmet-a2", evaluation.SectionA, evaluation.QuestionRating, "Personel yetkinliği"),
		staticQuestion("s-hizmet-b1", evaluation.SectionB, evaluation.QuestionDropdown, "İş sağlığı ve güvenliği kurallarına uyum"),
		staticQuestion("s-hizmet-b2", evaluation.SectionB, evaluation.QuestionRating, "Termin planına uyum"),
		staticQuestion("s-hizmet-c1", evaluation.SectionC, evaluation.QuestionText, "Ek görüşler"),
	},
	"danismanlik": {
		staticQuestion("s-danismanlik-a1", evaluation.SectionA, evaluation.QuestionRating, "Uzmanlık ve bilgi birikimi"),
		staticQuestion("s-danismanlik-a2", evaluation.SectionA, evaluation.QuestionRating, "Raporların kalitesi"),
		staticQuestion("s-danismanlik-b1", evaluation.SectionB, evaluation.QuestionDropdown, "İletişim ve erişilebilirlik"),
		staticQuestion("s-danismanlik-c1", evaluation.SectionC, evaluation.QuestionRating, "Fiyat / fayda dengesi"),
		staticQuestion("s-danismanlik-c2", evaluation.SectionC, evaluation.QuestionText, "Ek görüşler"),
	},
}

// staticBank returns the built-in bank for scoringType, if there is one.
func staticBank(scoringType string) (evaluation.Bank, bool) {
	questions, ok := staticBanks[scoringType]
	if !ok {
		return evaluation.Bank{}, false
	}
	out := make([]evaluation.Question, len(questions))
	copy(out, questions)
	return evaluation.Bank{ScoringType: scoringType, Source: evaluation.SourceStatic, Questions: out}, true
}

// StaticBanks exposes the built-in banks for seeding an empty database.
func StaticBanks() map[string]evaluation.Bank {
	out := make(map[string]evaluation.Bank, len(staticBanks))
	for code := range staticBanks {
		b, _ := staticBank(code)
		out[code] = b
	}
	return out
}

// StaticScoringTypes lists the built-in scoring types.
func StaticScoringTypes() []ScoringTypeInfo {
	out := make([]ScoringTypeInfo, len(staticScoringTypes))
	copy(out, staticScoringTypes)
	return out
}
