package localfile

import (
	"io"
	"os"

	"github.com/trac-dap/flowcore/errs"
	"github.com/trac-dap/flowcore/pipeline"
)

// chunkSize bounds a single read in one Pump cycle, keeping each cycle's
// work bounded to keep each Pump cycle cooperative.
const chunkSize = 64 * 1024

// ReadChunk reads exactly size bytes at offset from path into an owned
// Buffer. A short read (fewer bytes available than requested) is reported
// as "object too small".
func (s *Store) ReadChunk(path string, offset int64, size int) (*pipeline.Buffer, error) {
	f, err := os.Open(s.resolve(path))
	if err != nil {
		return nil, errs.NewResourceNotFoundError("storage object", path, err)
	}
	defer f.Close()

	buf := make([]byte, size)
	n, err := f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, errs.NewDataCorruptionError(path, 0, 0, "read failed", err)
	}
	if n < size {
		return nil, errs.NewDataCorruptionError(path, 0, 0, "object too small", nil)
	}
	return pipeline.NewBuffer(buf), nil
}

// InputStream is a SourceStage reading a file's contents in bounded
// chunks, one per Pump cycle.
type InputStream struct {
	downstream pipeline.ByteConsumer
	file       *os.File
	path       string

	started bool
	eof     bool
	done    bool
	err     error
}

// OpenInputStream opens path for a streaming read.
func (s *Store) OpenInputStream(path string) (*InputStream, error) {
	f, err := os.Open(s.resolve(path))
	if err != nil {
		return nil, errs.NewResourceNotFoundError("storage object", path, err)
	}
	return &InputStream{file: f, path: path}, nil
}

func (in *InputStream) Connect(consumer pipeline.Stage) {
	in.downstream, _ = consumer.(pipeline.ByteConsumer)
}

func (in *InputStream) DataInterface() pipeline.DataInterface { return pipeline.ByteStream }
func (in *InputStream) IsReady() bool                         { return !in.done }

// Cancel stops production and closes the underlying file.
func (in *InputStream) Cancel() {
	if in.done {
		return
	}
	in.done = true
	in.file.Close()
}

// Pump reads one bounded chunk and forwards it, or signals EOS/error once
// the file is exhausted.
func (in *InputStream) Pump() error {
	if !in.started {
		in.started = true
		if err := in.downstream.OnStart(); err != nil {
			return err
		}
	}
	if in.done {
		return nil
	}
	if in.eof {
		in.done = true
		return in.downstream.OnComplete()
	}

	buf := make([]byte, chunkSize)
	n, err := in.file.Read(buf)
	if n > 0 {
		if perr := in.downstream.OnNext(pipeline.NewBuffer(buf[:n])); perr != nil {
			in.done = true
			return perr
		}
	}
	if err == io.EOF {
		in.eof = true
		in.done = true
		return in.downstream.OnComplete()
	}
	if err != nil {
		in.done = true
		werr := errs.NewDataCorruptionError(in.path, 0, 0, "read failed", err)
		return in.downstream.OnError(werr)
	}
	return nil
}

func (in *InputStream) IsDone() bool { return in.done }
func (in *InputStream) Close() error { return in.file.Close() }

// OutputStream is a SinkStage writing delivered chunks to a file in the
// order they arrive.
type OutputStream struct {
	file *os.File
	path string

	done bool
}

// OpenOutputStream creates or truncates path for a streaming write.
func (s *Store) OpenOutputStream(path string) (*OutputStream, error) {
	if err := s.requireWritable("openOutputStream"); err != nil {
		return nil, err
	}
	f, err := os.Create(s.resolve(path))
	if err != nil {
		return nil, errs.NewInternalError("openOutputStream", "could not create "+path, err)
	}
	return &OutputStream{file: f, path: path}, nil
}

func (out *OutputStream) Connect(producer pipeline.Stage) {}

func (out *OutputStream) DataInterface() pipeline.DataInterface { return pipeline.ByteStream }
func (out *OutputStream) IsReady() bool                         { return !out.done }
func (out *OutputStream) Pump() error                           { return nil }
func (out *OutputStream) IsDone() bool                          { return out.done }
func (out *OutputStream) Close() error                          { return out.file.Close() }

// Terminate closes the file; err is not written anywhere since there is
// no error-envelope format for a raw byte stream.
func (out *OutputStream) Terminate(err error) {
	out.done = true
	out.file.Close()
}

func (out *OutputStream) OnStart() error { return nil }

func (out *OutputStream) OnNext(buf *pipeline.Buffer) error {
	defer buf.Release()
	if _, err := out.file.Write(buf.ReadableBytes()); err != nil {
		return errs.NewDataCorruptionError(out.path, 0, 0, "write failed", err)
	}
	return nil
}

func (out *OutputStream) OnComplete() error {
	out.done = true
	return out.file.Close()
}

func (out *OutputStream) OnError(err error) error {
	out.done = true
	return out.file.Close()
}
