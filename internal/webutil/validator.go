package webutil

import (
	"log"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/ja" // 日本語ロケール
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja" // 日本語翻訳
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsSlug はURLに使える小文字英数字とハイフンのみかどうか
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

var fieldNameTranslations = map[string]string{
	"course_id":      "コースID",
	"lesson_id":      "レッスンID",
	"question_id":    "問題ID",
	"category_id":    "カテゴリID",
	"name":           "名前",
	"slug":           "スラッグ",
	"title":          "タイトル",
	"description":    "説明",
	"price":          "価格",
	"level":          "レベル",
	"order":          "順序",
	"duration":       "再生時間",
	"rating":         "評価",
	"comment":        "コメント",
	"answers":        "回答",
	"answer":         "回答",
	"text":           "問題文",
	"options":        "選択肢",
	"correct_answer": "正解",
	"watch_progress": "視聴率",
	"time_spent":     "学習時間",
}

func fieldLabel(fe validator.FieldError) string {
	if label, ok := fieldNameTranslations[fe.Field()]; ok {
		return label
	}
	return fe.Field()
}

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	// JSONタグからフィールド名を取得するように設定
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := Validator.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsSlug(fl.Field().String())
	}); err != nil {
		log.Fatal(err)
	}

	japanese := ja.New()
	uni := ut.New(japanese, japanese)
	var found bool
	Trans, found = uni.GetTranslator("ja")
	if !found {
		log.Fatal("translator not found")
	}

	if err := ja_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	// 個別のメッセージを上書き。フィールド名は日本語名に置き換える
	registerTranslation := func(tag string, msg string, withParam bool) {
		_ = Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			var t string
			if withParam {
				t, _ = ut.T(tag, fieldLabel(fe), fe.Param())
			} else {
				t, _ = ut.T(tag, fieldLabel(fe))
			}
			return t
		})
	}

	registerTranslation("required", "{0}は必須項目です。", false)
	registerTranslation("slug", "{0}は小文字英数字とハイフンのみで入力してください。", false)
	registerTranslation("oneof", "{0}は[{1}]のいずれかで指定してください。", true)
	registerTranslation("gte", "{0}は{1}以上で指定してください。", true)
	registerTranslation("lte", "{0}は{1}以下で指定してください。", true)
	registerTranslation("min", "{0}は{1}文字(件)以上で入力してください。", true)
	registerTranslation("max", "{0}は{1}文字(件)以下で入力してください。", true)
}
