package utils

// BoolToYesNo преобразует булево значение в одну из двух подписей.
// @param b bool - булево значение
// @param yes string - подпись для true
// @param no string - подпись для false
// @return string - выбранная подпись
func BoolToYesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
