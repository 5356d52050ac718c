package codec

import (
	"bytes"
	"sync"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/hearts/internal/protocol"
)

// pool 带类型的 sync.Pool，放回前先 reset 清掉引用
type pool[T any] struct {
	p     sync.Pool
	reset func(*T)
}

func newPool[T any](reset func(*T)) *pool[T] {
	return &pool[T]{
		p:     sync.Pool{New: func() any { return new(T) }},
		reset: reset,
	}
}

func (p *pool[T]) get() *T { return p.p.Get().(*T) }

func (p *pool[T]) put(v *T) {
	if v == nil {
		return
	}
	p.reset(v)
	p.p.Put(v)
}

var (
	messages  = newPool(func(m *protocol.Message) { *m = protocol.Message{} })
	envelopes = newPool(func(s *structpb.Struct) { s.Reset() })
	buffers   = newPool(func(b *bytes.Buffer) { b.Reset() })
)

// GetMessage 从池中取一条空消息，用完交给 PutMessage
func GetMessage() *protocol.Message { return messages.get() }

// PutMessage 归还消息，nil 忽略
func PutMessage(msg *protocol.Message) { messages.put(msg) }

func getEnvelope() *structpb.Struct  { return envelopes.get() }
func putEnvelope(s *structpb.Struct) { envelopes.put(s) }

// GetBuffer 取一个已清空的缓冲区，容量保留
func GetBuffer() *bytes.Buffer { return buffers.get() }

func PutBuffer(buf *bytes.Buffer) { buffers.put(buf) }
