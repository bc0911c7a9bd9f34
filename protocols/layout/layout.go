// Package layout holds the primitives shared by the fixed-size binary
// account records: an 8 byte type discriminator, a version byte, public keys
// and little-endian 128 bit integers.
package layout

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Version is the record version written by this package.
const Version = uint8(1)

var (
	ErrInvalidDiscriminator = errors.New("account discriminator mismatch")
	ErrUnsupportedVersion   = errors.New("unsupported account version")
	ErrValueOutOfRange      = errors.New("value does not fit its field")

	mask64   = new(big.Int).SetUint64(^uint64(0))
	two128   = new(big.Int).Lsh(big.NewInt(1), 128)
	maxI128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxU128  = new(big.Int).Sub(two128, big.NewInt(1))
	signBit  = new(big.Int).Lsh(big.NewInt(1), 127)
	keyBytes = 32
)

// Discriminator returns the 8 byte tag of an account record name.
func Discriminator(name string) [8]byte {
	var d [8]byte
	sum := sha256.Sum256([]byte("account:" + name))
	copy(d[:], sum[:8])
	return d
}

// Encoder wraps a borsh encoder writing into an in-memory buffer. The first
// error sticks and later writes are skipped.
type Encoder struct {
	buf *bytes.Buffer
	enc *bin.Encoder
	err error
}

// NewEncoder starts a record with the discriminator of name and the version.
func NewEncoder(name string) *Encoder {
	buf := new(bytes.Buffer)
	e := &Encoder{buf: buf, enc: bin.NewBorshEncoder(buf)}
	d := Discriminator(name)
	e.do(func() error { return e.enc.WriteBytes(d[:], false) })
	e.U8(Version)
	return e
}

func (e *Encoder) do(f func() error) {
	if e.err == nil {
		e.err = f()
	}
}

func (e *Encoder) Bool(v bool) { e.do(func() error { return e.enc.WriteBool(v) }) }
func (e *Encoder) U8(v uint8)  { e.do(func() error { return e.enc.WriteUint8(v) }) }

func (e *Encoder) U16(v uint16) {
	e.do(func() error { return e.enc.WriteUint16(v, binary.LittleEndian) })
}

func (e *Encoder) I32(v int32) {
	e.do(func() error { return e.enc.WriteInt32(v, binary.LittleEndian) })
}

func (e *Encoder) U64(v uint64) {
	e.do(func() error { return e.enc.WriteUint64(v, binary.LittleEndian) })
}

func (e *Encoder) Key(k solana.PublicKey) {
	e.do(func() error { return e.enc.WriteBytes(k[:], false) })
}

// U128 writes v as low then high 64 bit words. nil is written as zero.
func (e *Encoder) U128(v *big.Int) {
	if v == nil {
		v = new(big.Int)
	}
	if v.Sign() < 0 || v.Cmp(maxU128) > 0 {
		e.do(func() error { return fmt.Errorf("%w: u128 %s", ErrValueOutOfRange, v) })
		return
	}
	e.words(v)
}

// I128 writes v in two's complement.
func (e *Encoder) I128(v *big.Int) {
	if v == nil {
		v = new(big.Int)
	}
	if v.Cmp(minI128) < 0 || v.Cmp(maxI128) > 0 {
		e.do(func() error { return fmt.Errorf("%w: i128 %s", ErrValueOutOfRange, v) })
		return
	}
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, two128)
	}
	e.words(u)
}

func (e *Encoder) words(u *big.Int) {
	lo := new(big.Int).And(u, mask64).Uint64()
	hi := new(big.Int).Rsh(u, 64).Uint64()
	e.U64(lo)
	e.U64(hi)
}

// Bytes returns the encoded record or the first write error.
func (e *Encoder) Bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf.Bytes(), nil
}

// Decoder mirrors Encoder.
type Decoder struct {
	dec *bin.Decoder
	err error
}

// NewDecoder checks the discriminator and version of a record named name.
func NewDecoder(name string, data []byte) (*Decoder, error) {
	if err := CheckHeader(name, data); err != nil {
		return nil, err
	}
	d := &Decoder{dec: bin.NewBorshDecoder(data)}
	d.do(func() error { _, err := d.dec.ReadNBytes(9); return err })
	return d, d.err
}

// CheckHeader reports whether data starts with the header of name.
func CheckHeader(name string, data []byte) error {
	if len(data) < 9 {
		return fmt.Errorf("%w: record of %d bytes", ErrInvalidDiscriminator, len(data))
	}
	want := Discriminator(name)
	if !bytes.Equal(data[:8], want[:]) {
		return fmt.Errorf("%w: expected %s", ErrInvalidDiscriminator, name)
	}
	if data[8] != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[8])
	}
	return nil
}

func (d *Decoder) do(f func() error) {
	if d.err == nil {
		d.err = f()
	}
}

func (d *Decoder) Bool() (v bool) {
	d.do(func() (err error) { v, err = d.dec.ReadBool(); return })
	return
}

func (d *Decoder) U8() (v uint8) {
	d.do(func() (err error) { v, err = d.dec.ReadUint8(); return })
	return
}

func (d *Decoder) U16() (v uint16) {
	d.do(func() (err error) { v, err = d.dec.ReadUint16(binary.LittleEndian); return })
	return
}

func (d *Decoder) I32() (v int32) {
	d.do(func() (err error) { v, err = d.dec.ReadInt32(binary.LittleEndian); return })
	return
}

func (d *Decoder) U64() (v uint64) {
	d.do(func() (err error) { v, err = d.dec.ReadUint64(binary.LittleEndian); return })
	return
}

func (d *Decoder) Key() (k solana.PublicKey) {
	d.do(func() error {
		b, err := d.dec.ReadNBytes(keyBytes)
		if err != nil {
			return err
		}
		k = solana.PublicKeyFromBytes(b)
		return nil
	})
	return
}

func (d *Decoder) U128() *big.Int {
	lo, hi := d.U64(), d.U64()
	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(lo))
}

func (d *Decoder) I128() *big.Int {
	v := d.U128()
	if v.Cmp(signBit) >= 0 {
		v.Sub(v, two128)
	}
	return v
}

// Finish returns the first read error, or an error if bytes are left over.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if n := d.dec.Remaining(); n != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrValueOutOfRange, n)
	}
	return nil
}
