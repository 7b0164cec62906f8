package classifier

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// runtimeLibrary returns libPath, or the platform's ONNX Runtime shared
// library next to the model file when libPath is empty.
func runtimeLibrary(modelPath, libPath string) string {
	if libPath != "" {
		return libPath
	}
	name := "libonnxruntime.so"
	switch runtime.GOOS {
	case "darwin":
		name = "libonnxruntime.dylib"
	case "windows":
		name = "onnxruntime.dll"
	}
	return filepath.Join(filepath.Dir(modelPath), name)
}

// onnxSession wraps a DynamicAdvancedSession for single-input models.
type onnxSession struct {
	session   *ort.DynamicAdvancedSession
	inputName string
	inputDims ort.Shape
	outputs   []ort.InputOutputInfo
}

// newONNXSession loads the model at modelPath and creates an inference
// session. The model must take exactly one tensor input.
func newONNXSession(modelPath, libPath string) (*onnxSession, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("onnx: %w", err)
	}

	if err := initORT(runtimeLibrary(modelPath, libPath)); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected a single input tensor, got %d", len(inputs))
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model has no outputs")
	}

	outputNames := make([]string, len(outputs))
	for i, o := range outputs {
		outputNames[i] = o.Name
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		outputNames,
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &onnxSession{
		session:   session,
		inputName: inputs[0].Name,
		inputDims: inputs[0].Dimensions,
		outputs:   outputs,
	}, nil
}

// run feeds one float32 tensor and returns every model output, allocated by
// onnxruntime. The caller must release them with destroyAll.
func (s *onnxSession) run(data []float32, shape []int64) ([]ort.Value, error) {
	in, err := ort.NewTensor(ort.NewShape(shape...), data)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer in.Destroy()

	outs := make([]ort.Value, len(s.outputs))
	if err := s.session.Run([]ort.Value{in}, outs); err != nil {
		destroyAll(outs)
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}
	return outs, nil
}

// outputIndex returns the position of the first tensor output with the given
// element type, or -1.
func (s *onnxSession) outputIndex(dt ort.TensorElementDataType) int {
	for i, o := range s.outputs {
		if o.OrtValueType == ort.ONNXTypeTensor && o.DataType == dt {
			return i
		}
	}
	return -1
}

// close releases the ONNX session resources.
func (s *onnxSession) close() error {
	return s.session.Destroy()
}

func destroyAll(vals []ort.Value) {
	for _, v := range vals {
		if v != nil {
			v.Destroy()
		}
	}
}

// tensorData copies the contents of v out before the tensor is destroyed.
func tensorData[T ort.TensorData](v ort.Value) ([]T, error) {
	t, ok := v.(*ort.Tensor[T])
	if !ok {
		return nil, fmt.Errorf("onnx: unexpected output type %T", v)
	}
	src := t.GetData()
	out := make([]T, len(src))
	copy(out, src)
	return out, nil
}

// dimMatches reports whether a model dimension accepts n. Negative model
// dimensions are dynamic.
func dimMatches(dim int64, n int) bool {
	return dim < 0 || dim == int64(n)
}
