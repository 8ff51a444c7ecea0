package knowledge

const schema = `{
  "type": "object",
  "required": ["disease_keywords", "guidelines"],
  "properties": {
    "disease_keywords": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {"type": "string"}
      }
    },
    "guidelines": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "recommended_meds": {
            "type": "array",
            "items": {"$ref": "#/definitions/medication"}
          }
        }
      }
    }
  },
  "definitions": {
    "medication": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "class": {"type": "string"},
        "notes": {"type": "string"},
        "dose": {
          "oneOf": [
            {"type": "null"},
            {"$ref": "#/definitions/dose"}
          ]
        }
      }
    },
    "dose": {
      "type": "object",
      "properties": {
        "per_kg_mg": {"type": ["number", "null"], "minimum": 0},
        "fixed_mg": {"type": ["number", "null"], "minimum": 0},
        "frequency": {"type": ["string", "null"]},
        "duration_days": {"type": ["integer", "null"], "minimum": 0},
        "demo_only": {"type": "boolean"}
      }
    }
  }
}`
