package common

import (
  "encoding/json"

  "gorm.io/datatypes"
)

func JSONMap(in interface{}) datatypes.JSONMap {
  buf, _ := json.Marshal(in)
  var out datatypes.JSONMap
  json.Unmarshal(buf, &out)
  return out
}

func FromJSONMap(in datatypes.JSONMap, out interface{}) error {
  buf, err := in.MarshalJSON()
  if err != nil {
    return err
  }
  return json.Unmarshal(buf, out)
}
