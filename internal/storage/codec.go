package storage

import (
	"encoding/json"
	"errors"

	"snnverify/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRunResult(r model.RunResult) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRunResult(data []byte) (model.RunResult, error) {
	var result model.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return model.RunResult{}, err
	}
	if err := checkVersion(result.VersionedRecord); err != nil {
		return model.RunResult{}, err
	}
	return result, nil
}

func EncodeValidation(v model.ValidationRecord) ([]byte, error) {
	return json.Marshal(v)
}

func DecodeValidation(data []byte) (model.ValidationRecord, error) {
	var record model.ValidationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.ValidationRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.ValidationRecord{}, err
	}
	return record, nil
}

func checkVersion(record model.VersionedRecord) error {
	if record.SchemaVersion != CurrentSchemaVersion || record.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
