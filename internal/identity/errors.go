package identity

import (
	pkgerrors "github.com/angelmondragon/smokehouse-backend/pkg/errors"
)

// Provider error codes surfaced to clients in details.code.
const (
	CodeMissingPassword      = "auth/missing-password"
	CodeWrongPassword        = "auth/wrong-password"
	CodeUserNotFound         = "auth/user-not-found"
	CodeInvalidEmail         = "auth/invalid-email"
	CodeEmailAlreadyInUse    = "auth/email-already-in-use"
	CodeTooManyRequests      = "auth/too-many-requests"
	CodeWeakPassword         = "auth/weak-password"
	CodePopupClosedByUser    = "auth/popup-closed-by-user"
	CodeNetworkRequestFailed = "auth/network-request-failed"
	CodeUserDisabled         = "auth/user-disabled"
	CodeOperationNotAllowed  = "auth/operation-not-allowed"
	CodeCredentialInUse      = "auth/credential-already-in-use"
	CodeInvalidCredential    = "auth/invalid-credential"
)

const fallbackMessage = "ЩОСЬ ПІШЛО НЕ ТАК. СПРОБУЙТЕ ЩЕ РАЗ 😔"

var friendlyMessages = map[string]string{
	CodeMissingPassword:      "ВИ НЕ ВВЕЛИ ПАРОЛЬ 🔑",
	CodeWrongPassword:        "НЕВІРНИЙ ПАРОЛЬ ❌",
	CodeUserNotFound:         "ТАКОГО АКАУНТУ НЕ ІСНУЄ 🤷‍♂️",
	CodeInvalidEmail:         "НЕКОРЕКТНИЙ EMAIL 📧",
	CodeEmailAlreadyInUse:    "EMAIL ВЖЕ ЗАРЕЄСТРОВАНИЙ ✋",
	CodeTooManyRequests:      "ЗАБАГАТО СПРОБ. ЗАЧЕКАЙТЕ ХВИЛИНУ ⏳",
	CodeWeakPassword:         "ПАРОЛЬ МАЄ БУТИ ВІД 6 СИМВОЛІВ 🔓",
	CodePopupClosedByUser:    "ВИ ЗАКРИЛИ ВІКНО ВХОДУ 🚪",
	CodeNetworkRequestFailed: "ПЕРЕВІРТЕ ІНТЕРНЕТ З'ЄДНАННЯ 🌐",
	CodeUserDisabled:         "ЦЕЙ АКАУНТ ЗАБЛОКОВАНО 🚫",
	CodeOperationNotAllowed:  "ВХІД ТИМЧАСОВО НЕДОСТУПНИЙ 🔧",
	CodeCredentialInUse:      "ЦЕЙ АКАУНТ ВЖЕ ПРИВ'ЯЗАНИЙ 🔗",
	CodeInvalidCredential:    "ПОМИЛКА ДАНИХ ВХОДУ ❌",
}

var errorCodes = map[string]pkgerrors.Code{
	CodeMissingPassword:      pkgerrors.CodeValidation,
	CodeInvalidEmail:         pkgerrors.CodeValidation,
	CodeWeakPassword:         pkgerrors.CodeValidation,
	CodeEmailAlreadyInUse:    pkgerrors.CodeConflict,
	CodeCredentialInUse:      pkgerrors.CodeConflict,
	CodeTooManyRequests:      pkgerrors.CodeRateLimit,
	CodeNetworkRequestFailed: pkgerrors.CodeDependency,
	CodeOperationNotAllowed:  pkgerrors.CodeDependency,
}

// FriendlyMessage maps a provider error code to the shopper-facing text.
// Unknown codes get a generic fallback.
func FriendlyMessage(code string) string {
	if msg, ok := friendlyMessages[code]; ok {
		return msg
	}
	return fallbackMessage
}

// ProviderError builds a typed API error carrying the provider code in its
// details and the friendly text as its message.
func ProviderError(code string) *pkgerrors.Error {
	return providerError(code, nil)
}

func providerError(code string, cause error) *pkgerrors.Error {
	apiCode, ok := errorCodes[code]
	if !ok {
		apiCode = pkgerrors.CodeUnauthorized
	}
	return pkgerrors.Wrap(apiCode, cause, FriendlyMessage(code)).
		WithDetails(map[string]string{"code": code})
}
