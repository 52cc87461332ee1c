package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"success": false, "error": message}
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}

// Success builds {"success": true} plus the given key/value pairs.
func Success(kv ...any) Envelope {
	env := Envelope{"success": true}
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			env[key] = kv[i+1]
		}
	}
	return env
}
