package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"asistencia/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────

type stubUsuarioRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[uuid.UUID]model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Username = strings.ToLower(u.Username)
	for _, other := range r.users {
		if other.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Estado == "" {
		u.Estado = model.EstadoActivo
	}
	// Distinct creation instants keep ListActivos ordering deterministic.
	u.FechaCreacion = time.Now().Add(time.Duration(len(r.users)) * time.Millisecond)
	r.users[u.ID] = *u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	username = strings.ToLower(username)
	for _, u := range r.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *stubUsuarioRepo) ListActivos(_ context.Context) ([]model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Usuario
	for _, u := range r.users {
		if u.Activo() {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaCreacion.Before(out[j].FechaCreacion) })
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[u.ID] = *u
	return nil
}

func (r *stubUsuarioRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Estado = model.EstadoDesactivado
	r.users[id] = u
	return nil
}

type stubEmpleadoRepo struct {
	mu        sync.Mutex
	empleados map[string]model.Empleado
}

func newStubEmpleadoRepo() *stubEmpleadoRepo {
	return &stubEmpleadoRepo{empleados: make(map[string]model.Empleado)}
}

func (r *stubEmpleadoRepo) Create(_ context.Context, e *model.Empleado) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.empleados[e.DNI]; ok {
		return gorm.ErrDuplicatedKey
	}
	e.FechaRegistro = time.Now()
	r.empleados[e.DNI] = *e
	return nil
}

func (r *stubEmpleadoRepo) FindByDNI(_ context.Context, dni string) (*model.Empleado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.empleados[dni]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *stubEmpleadoRepo) List(_ context.Context) ([]model.Empleado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Empleado, 0, len(r.empleados))
	for _, e := range r.empleados {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubEmpleadoRepo) Update(_ context.Context, e *model.Empleado) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.empleados[e.DNI]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.Nombre, cur.Cargo, cur.Area = e.Nombre, e.Cargo, e.Area
	r.empleados[e.DNI] = cur
	return nil
}

func (r *stubEmpleadoRepo) Delete(_ context.Context, dni string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.empleados[dni]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.empleados, dni)
	return nil
}

// stubAsistenciaRepo enforces the (dni, fecha, tipo) unique index like the
// real schema does.
type stubAsistenciaRepo struct {
	mu      sync.Mutex
	records []model.Asistencia
	// beforeCreate runs just before the uniqueness check of Create.
	beforeCreate func()
}

func (r *stubAsistenciaRepo) Create(_ context.Context, a *model.Asistencia) error {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.records {
		if x.DNI == a.DNI && x.Fecha == a.Fecha && x.Tipo == a.Tipo {
			return gorm.ErrDuplicatedKey
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.records = append(r.records, *a)
	return nil
}

func (r *stubAsistenciaRepo) ListByDNIFecha(_ context.Context, dni, fecha string) ([]model.Asistencia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Asistencia
	for _, x := range r.records {
		if x.DNI == dni && x.Fecha == fecha {
			out = append(out, x)
		}
	}
	return out, nil
}

func (r *stubAsistenciaRepo) List(_ context.Context, fecha string) ([]model.Asistencia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Asistencia
	for _, x := range r.records {
		if fecha == "" || x.Fecha == fecha {
			out = append(out, x)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *stubAsistenciaRepo) ListRecientes(ctx context.Context, limit int) ([]model.Asistencia, error) {
	out, _ := r.List(ctx, "")
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubAsistenciaRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

type stubPuntoRepo struct {
	mu     sync.Mutex
	puntos []model.PuntoMarcacion
	calls  int
	err    error
}

func (r *stubPuntoRepo) Reemplazar(_ context.Context, puntos []model.PuntoMarcacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.puntos = append([]model.PuntoMarcacion(nil), puntos...)
	return nil
}

func (r *stubPuntoRepo) ListActivos(_ context.Context) ([]model.PuntoMarcacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PuntoMarcacion
	for _, p := range r.puntos {
		if p.Activo {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPuntoRepo) ListAll(_ context.Context) ([]model.PuntoMarcacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.PuntoMarcacion(nil), r.puntos...), nil
}

type stubConfigRepo struct {
	mu      sync.Mutex
	values  map[string]string
	failKey string
}

func newStubConfigRepo() *stubConfigRepo {
	return &stubConfigRepo{values: make(map[string]string)}
}

func (r *stubConfigRepo) ListAll(_ context.Context) ([]model.ConfigSistema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ConfigSistema, 0, len(r.values))
	for k, v := range r.values {
		out = append(out, model.ConfigSistema{Key: k, Value: v})
	}
	return out, nil
}

func (r *stubConfigRepo) Get(_ context.Context, key string) (*model.ConfigSistema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.ConfigSistema{Key: key, Value: v}, nil
}

func (r *stubConfigRepo) Upsert(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key == r.failKey {
		return gorm.ErrInvalidDB
	}
	r.values[key] = value
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu     sync.Mutex
	tablas []string
}

func (n *recordingNotifier) Notify(tabla string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tablas = append(n.tablas, tabla)
}

func (n *recordingNotifier) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.tablas...)
}

func (k *keyedLock) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
