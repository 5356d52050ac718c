// Package codec 消息的 JSON 文本帧与 protobuf 二进制帧编解码，附带对象池
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/hearts/internal/apperrors"
	"github.com/palemoky/hearts/internal/protocol"
)

var ErrMissingType = errors.New("codec: 消息缺少 type")

// NewMessage payload 按 JSON 编码，nil 表示没有消息体。
// 取自对象池，用完可以 PutMessage
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("codec: 编码 %s: %w", msgType, err)
		}
	}
	msg := GetMessage()
	msg.Type, msg.Payload = msgType, body
	return msg, nil
}

// MustNewMessage 只用于结构固定的 payload，编码失败即程序错误
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Encode 将消息编码为 JSON 文本帧
func Encode(m *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := json.NewEncoder(buf).Encode(m); err != nil {
		return nil, err
	}
	// 去掉 Encoder 追加的换行
	out := buf.Bytes()
	return append([]byte(nil), out[:len(out)-1]...), nil
}

// Decode 从 JSON 文本帧解码消息
func Decode(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, err
	}
	if msg.Type == "" {
		PutMessage(msg)
		return nil, ErrMissingType
	}
	return msg, nil
}

// EncodeBinary 将消息编码为 protobuf 二进制帧（google.protobuf.Struct {type, payload}）
func EncodeBinary(m *protocol.Message) ([]byte, error) {
	env := getEnvelope()
	defer putEnvelope(env)

	env.Fields = map[string]*structpb.Value{
		"type": structpb.NewStringValue(string(m.Type)),
	}
	if len(m.Payload) > 0 {
		v := &structpb.Value{}
		if err := v.UnmarshalJSON(m.Payload); err != nil {
			return nil, fmt.Errorf("codec: 编码 payload: %w", err)
		}
		env.Fields["payload"] = v
	}
	return proto.Marshal(env)
}

// DecodeBinary 从 protobuf 二进制帧解码消息
func DecodeBinary(data []byte) (*protocol.Message, error) {
	env := getEnvelope()
	defer putEnvelope(env)

	if err := proto.Unmarshal(data, env); err != nil {
		return nil, err
	}
	typ := env.GetFields()["type"].GetStringValue()
	if typ == "" {
		return nil, ErrMissingType
	}

	msg := GetMessage()
	msg.Type = protocol.MessageType(typ)
	if v, ok := env.GetFields()["payload"]; ok {
		payload, err := v.MarshalJSON()
		if err != nil {
			PutMessage(msg)
			return nil, fmt.Errorf("codec: 解码 payload: %w", err)
		}
		msg.Payload = payload
	}
	return msg, nil
}

// ParsePayload 空消息体得到零值
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	out := new(T)
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// NewErrorMessage 使用错误码的默认文案
func NewErrorMessage(code int) *protocol.Message {
	return NewErrorMessageWithText(code, protocol.ErrorMessages[code])
}

func NewErrorMessageWithText(code int, text string) *protocol.Message {
	return MustNewMessage(protocol.MsgError, protocol.ErrorPayload{Code: code, Message: text})
}

// NewErrorMessageFromErr GameError 带上自己的码和文案，其他错误一律按未知错误
func NewErrorMessageFromErr(err error) *protocol.Message {
	var ge *apperrors.GameError
	if errors.As(err, &ge) {
		return NewErrorMessageWithText(ge.Code, ge.Message)
	}
	return NewErrorMessage(protocol.ErrCodeUnknown)
}
