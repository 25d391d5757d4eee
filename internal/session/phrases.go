package session

import "github.com/abhisek/echotutor/internal/lang"

// phrase is a fixed prompt spoken by the session.
type phrase int

const (
	phraseHome phrase = iota
	phraseLessonsMissing
	phraseFeedbackMissing
	phraseSpatialIntro
	phraseCommandPrompt
	phraseAskPrompt
	phraseNotRecognized
	phraseNotHeard
	phraseRecognizerUnavailable
	phraseNotReady
	phraseGenerationFailed
	phraseSwitched
	phraseTranslationFailed
	phraseRecordingStarted
	phraseRecordingSaved
	phraseRecordingFailed
	phrasePhotoSaved
	phrasePhotoFailed
	phraseFirstItem
	phrasePackDone
	phraseFollowUp
	phraseNoPhoto
)

var phrases = map[phrase][2]string{
	phraseHome:                  {"Home. Tap for homework, double tap for feedback, long press to explore with the camera.", "ہوم۔ ہوم ورک کے لیے ٹیپ کریں، فیڈبیک کے لیے ڈبل ٹیپ کریں، کیمرے کے لیے دبائے رکھیں۔"},
	phraseLessonsMissing:        {"No homework is available.", "کوئی ہوم ورک موجود نہیں ہے۔"},
	phraseFeedbackMissing:       {"No feedback is available.", "کوئی فیڈبیک موجود نہیں ہے۔"},
	phraseSpatialIntro:          {"Double tap to take a photo.", "تصویر لینے کے لیے ڈبل ٹیپ کریں۔"},
	phraseCommandPrompt:         {"Say a command.", "کوئی حکم بولیں۔"},
	phraseAskPrompt:             {"Ask your question.", "اپنا سوال پوچھیں۔"},
	phraseNotRecognized:         {"Command not recognized.", "حکم سمجھ نہیں آیا۔"},
	phraseNotHeard:              {"I did not hear anything.", "میں نے کچھ نہیں سنا۔"},
	phraseRecognizerUnavailable: {"Speech recognition is not available.", "آواز کی شناخت دستیاب نہیں ہے۔"},
	phraseNotReady:              {"The tutor is still loading. Please try again.", "ٹیوٹر ابھی لوڈ ہو رہا ہے۔ دوبارہ کوشش کریں۔"},
	phraseGenerationFailed:      {"Sorry, something went wrong.", "معاف کیجیے، کچھ غلط ہو گیا۔"},
	phraseSwitched:              {"Switched to English.", "اردو میں تبدیل کر دیا گیا۔"},
	phraseTranslationFailed:     {"Translation failed. Staying in English.", "ترجمہ نہیں ہو سکا۔ انگریزی جاری ہے۔"},
	phraseRecordingStarted:      {"Recording. Tap to stop.", "ریکارڈنگ جاری ہے۔ روکنے کے لیے ٹیپ کریں۔"},
	phraseRecordingSaved:        {"Answer saved. Here it is.", "جواب محفوظ ہو گیا۔ سنیے۔"},
	phraseRecordingFailed:       {"Recording failed.", "ریکارڈنگ نہیں ہو سکی۔"},
	phrasePhotoSaved:            {"Photo saved.", "تصویر محفوظ ہو گئی۔"},
	phrasePhotoFailed:           {"Could not take the photo.", "تصویر نہیں لی جا سکی۔"},
	phraseFirstItem:             {"This is the first item.", "یہ پہلا سوال ہے۔"},
	phrasePackDone:              {"That was the last item.", "یہ آخری سوال تھا۔"},
	phraseFollowUp:              {"Ask a question, or double tap for a new photo.", "سوال پوچھیں، یا نئی تصویر کے لیے ڈبل ٹیپ کریں۔"},
	phraseNoPhoto:               {"Take a photo first.", "پہلے تصویر لیں۔"},
}

// in returns the phrase in the given language.
func (p phrase) in(l lang.Language) string {
	texts := phrases[p]
	if l == lang.Urdu {
		return texts[1]
	}
	return texts[0]
}
