package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "field" or "modifier").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "required":
			return "必須プロパティが不足しています"
		case "unknown_key":
			return "未知のキーです"
		case "not_config_type":
			return "config 型ではありません"
		case "not_config_instance":
			return "config インスタンスではありません"
		case "invalid_modifier":
			return "この型には適用できない修飾子です"
		case "unsupported_key_type":
			return "オブジェクトのキー型が不正です"
		case "cast_error":
			return "値を変換できません"
		case "invalid_enum":
			return "列挙メンバーではありません"
		case "validation":
			return "スキーマ検証に失敗しました"
		case "codec_error":
			return "エンコーダ/デコーダが失敗しました"
		case "no_handler":
			return "フォーマットハンドラがありません"
		case "unsupported_format":
			return "フォーマットで表現できません"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required property missing"
		case "unknown_key":
			return "unknown key"
		case "not_config_type":
			return "not a config type"
		case "not_config_instance":
			return "not a config instance"
		case "invalid_modifier":
			return "modifier not applicable to field type"
		case "unsupported_key_type":
			return "unsupported object key type"
		case "cast_error":
			return "cannot cast value"
		case "invalid_enum":
			return "not a member of the enum"
		case "validation":
			return "schema validation failed"
		case "codec_error":
			return "field encoder/decoder failed"
		case "no_handler":
			return "no format handler available"
		case "unsupported_format":
			return "cannot be represented in this format"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
