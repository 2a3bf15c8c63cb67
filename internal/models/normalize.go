package models

// Normalize maps a raw server record into a canonical Entry.
//
// For every field the first alias carrying a string value wins and
// later aliases are ignored even when present. The precedence order is
// a fixed contract:
//
//	uuid:     uuid → UUID → Uuid
//	title:    title → Title → Name → "Untitled"
//	username: username → Username → Login → StringFields[UserName] → StringFields[username]
//	password: password → Password → StringFields[Password]
//	url:      url → Url → URL
//	notes:    notes → Notes
//	group:    group → Group → GroupPath
func Normalize(raw Raw) Entry {
	var e Entry

	e.UUID, _ = stringField(raw, "uuid", "UUID", "Uuid")

	if title, ok := stringField(raw, "title", "Title", "Name"); ok && title != "" {
		e.Title = title
	} else {
		e.Title = UntitledFallback
	}

	if username, ok := stringField(raw, "username", "Username", "Login"); ok {
		e.Username = username
	} else if username, ok := stringFieldsEntry(raw, "UserName"); ok {
		e.Username = username
	} else if username, ok := stringFieldsEntry(raw, "username"); ok {
		e.Username = username
	}

	if password, ok := stringField(raw, "password", "Password"); ok {
		e.Password = password
	} else if password, ok := stringFieldsEntry(raw, "Password"); ok {
		e.Password = password
	}

	e.URL, _ = stringField(raw, "url", "Url", "URL")
	e.Notes, _ = stringField(raw, "notes", "Notes")
	e.Group, _ = stringField(raw, "group", "Group", "GroupPath")

	return e
}

// stringField returns the first alias holding a string value.
// Non-string values do not shadow later aliases.
func stringField(raw Raw, names ...string) (string, bool) {
	for _, name := range names {
		if s, ok := raw[name].(string); ok {
			return s, true
		}
	}
	return "", false
}

// stringFieldsEntry looks a key up in the generic string-fields
// collection, which servers emit either as an object or as a list of
// {Key, Value} pairs.
func stringFieldsEntry(raw Raw, key string) (string, bool) {
	sf, ok := raw["StringFields"]
	if !ok {
		sf, ok = raw["stringFields"]
	}
	if !ok {
		return "", false
	}

	switch fields := sf.(type) {
	case map[string]any:
		if s, ok := fields[key].(string); ok {
			return s, true
		}
	case []any:
		for _, item := range fields {
			pair, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if name, _ := pair["Key"].(string); name != key {
				continue
			}
			if s, ok := pair["Value"].(string); ok {
				return s, true
			}
		}
	}
	return "", false
}
