package guardbot

// User-facing strings. The bot serves a single Arabic-speaking community.
const (
	verificationQuestion = "ما هو الهدف من التوثيق؟"

	textAlreadyVerified   = "✅ أنت بالفعل مستخدم موثق."
	textAlreadyPending    = "⏳ طلبك قيد المراجعة لدى المسؤول بالفعل."
	textAnswerForwarded   = "⏳ تم إرسال إجابتك إلى المسؤول. انتظر الموافقة..."
	textForwardFailed     = "⚠️ تعذر إرسال إجابتك إلى المسؤول. اضغط زر التوثيق مرة أخرى لاحقًا."
	textApproved          = "🎉 تهانينا! تم توثيق حسابك بنجاح."
	textRejected          = "❌ تم رفض طلب التوثيق الخاص بك."
	textOperatorOnlyCmd   = "❌ هذا الأمر مخصص فقط للمسؤول."
	textOperatorOnlyBtn   = "❌ هذا الإجراء مخصص فقط للمسؤول."
	textOpenPrivateChat   = "⚠️ افتح محادثة خاصة مع البوت ثم اضغط الزر مرة أخرى."
	textDecisionApproved  = "✅ تم القبول"
	textDecisionRejected  = "❌ تم الرفض"
	textInvalidAction     = "⚠️ إجراء غير معروف."
	textPromptUpdated     = "✅ تم تحديث رسالة التحقق بنجاح!"
	textPromptSent        = "✅ تم إرسال رسالة التحقق بنجاح!"
	textPromptSendFailed  = "❌ تعذر إرسال رسالة التحقق."
	textPrompt            = "📢 هل ترغب في التقدم للتحقق؟ اضغط على الزر أدناه لبدء العملية."
	textApplyButton       = "📝 التقدم للتحقق"
	textApproveButton     = "✅ قبول"
	textRejectButton      = "❌ رفض"
	textThinking          = "🤖 Thinking..."
	textChatEmptyResponse = "❌ لم أتمكن من توليد استجابة."
	textChatUnavailable   = "⚠️ الخدمة غير متاحة حاليًا، حاول لاحقًا."

	chatQuestionLabel    = "❓ السؤال:"
	operatorRequestTitle = "🔔 طلب تحقق جديد!"
	operatorUserLabel    = "👤 المستخدم:"
	questionLabel        = "📝 سؤال التحقق:"
	answerLabel          = "✍️ إجابة المستخدم:"
	sendAnswerNow        = "💡 أرسل إجابتك الآن."
)
