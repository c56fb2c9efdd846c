package validation

// CustomMessage returns hand-written messages for fields whose generic
// wording reads poorly. Keys are the JSON field names.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"email": {
			"required": "email is required",
			"email":    "email must be a valid email address",
		},
		"password": {
			"required": "password is required",
			"min":      "password must be at least 6 characters",
			"max":      "password must be at most 100 characters",
		},
		"role": {
			"oneof": "role must be EMPLOYEE or JURY",
		},
		"userIds": {
			"required": "userIds is required",
			"min":      "You must select between 2 and 3 users.",
			"max":      "You must select between 2 and 3 users.",
		},
		"refreshToken": {
			"required": "refreshToken is required",
		},
	}
	return customValidationMessages[field]
}
